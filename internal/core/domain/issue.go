package domain

import (
	"errors"
	"time"
)

// Status represents the lifecycle state of an issue.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In-Progress"
	StatusWorking    Status = "Working"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
	StatusRejected   Status = "Rejected"
)

// Priority is orthogonal to Status and is raised only by a verified boost payment.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// Category is the fixed set of infrastructure categories an issue belongs to.
type Category string

const (
	CategoryRoad        Category = "Road"
	CategoryWater       Category = "Water"
	CategoryElectricity Category = "Electricity"
	CategorySanitation  Category = "Sanitation"
	CategoryStreetlight Category = "Streetlight"
	CategoryOther       Category = "Other"
)

// validTransitions defines the targets a staff-driven status update may reach
// from each state. Closed and Rejected are absent: nothing leaves them.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusWorking, StatusResolved, StatusClosed},
	StatusInProgress: {StatusPending, StatusWorking, StatusResolved, StatusClosed},
	StatusWorking:    {StatusPending, StatusInProgress, StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed},
}

var (
	ErrIssueNotFound     = errors.New("issue not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("access forbidden")
	ErrNotAssignedStaff  = errors.New("only the assigned staff may update this issue")
	ErrReasonRequired    = errors.New("a rejection reason is required")
	ErrEditWindowClosed  = errors.New("issue can only be edited while pending")
	ErrDeleteNotAllowed  = errors.New("issue can no longer be deleted")
	ErrAlreadyBoosted    = errors.New("issue priority is already high")
	ErrOwnUpvote         = errors.New("cannot upvote your own issue")
)

// Terminal reports whether no further status transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusRejected
}

// CanTransitionTo reports whether a staff-driven update from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StaffRef identifies the staff member assigned to an issue.
type StaffRef struct {
	Email      string `json:"email" bson:"email"`
	Name       string `json:"name" bson:"name"`
	Department string `json:"department" bson:"department"`
}

// TimelineEntry is one immutable record in an issue's audit log. Entries are
// only ever appended, never edited or truncated.
type TimelineEntry struct {
	Status       Status    `json:"status" bson:"status"`
	Message      string    `json:"message" bson:"message"`
	UpdatedBy    string    `json:"updatedBy" bson:"updated_by"`
	UpdaterEmail string    `json:"updaterEmail" bson:"updater_email"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Issue is the core aggregate root.
type Issue struct {
	ID            string          `json:"id" bson:"_id,omitempty"`
	ReporterEmail string          `json:"reporterEmail" bson:"reporter_email"`
	ReporterName  string          `json:"reporterName" bson:"reporter_name"`
	Title         string          `json:"title" bson:"title"`
	Description   string          `json:"description" bson:"description"`
	Category      Category        `json:"category" bson:"category"`
	Location      string          `json:"location" bson:"location"`
	ImageURL      string          `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Status        Status          `json:"status" bson:"status"`
	Priority      Priority        `json:"priority" bson:"priority"`
	Upvotes       []string        `json:"upvotes" bson:"upvotes"`
	StaffAssigned *StaffRef       `json:"staffAssigned,omitempty" bson:"staff_assigned,omitempty"`
	Timeline      []TimelineEntry `json:"timeline" bson:"timeline"`
	CreatedAt     time.Time       `json:"createdAt" bson:"created_at"`
}

// NewIssue creates a pending, normal-priority issue with the creation event
// as the first timeline entry.
func NewIssue(reporter Actor, title, description string, category Category, location, imageURL string, now time.Time) *Issue {
	return &Issue{
		ReporterEmail: reporter.Email,
		ReporterName:  reporter.Name,
		Title:         title,
		Description:   description,
		Category:      category,
		Location:      location,
		ImageURL:      imageURL,
		Status:        StatusPending,
		Priority:      PriorityNormal,
		Upvotes:       []string{},
		Timeline: []TimelineEntry{{
			Status:       StatusPending,
			Message:      "Issue reported",
			UpdatedBy:    reporter.Name,
			UpdaterEmail: reporter.Email,
			UpdatedAt:    now,
		}},
		CreatedAt: now,
	}
}

func (i *Issue) append(status Status, message string, actor Actor, at time.Time) {
	i.Timeline = append(i.Timeline, TimelineEntry{
		Status:       status,
		Message:      message,
		UpdatedBy:    actor.Name,
		UpdaterEmail: actor.Email,
		UpdatedAt:    at,
	})
}

// Assign sets the assigned staff. Admin only. A pending issue moves to
// In-Progress; an In-Progress/Working issue may be assigned in place while
// unassigned.
func (i *Issue) Assign(staff StaffRef, actor Actor, at time.Time) error {
	if actor.Role != RoleAdmin {
		return ErrForbidden
	}
	switch i.Status {
	case StatusPending:
		i.Status = StatusInProgress
	case StatusInProgress, StatusWorking:
		if i.StaffAssigned != nil {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	i.StaffAssigned = &staff
	i.append(i.Status, "Assigned to "+staff.Name, actor, at)
	return nil
}

// Reject moves a pending issue to Rejected. Admin only; a reason is required
// and is recorded in the timeline entry.
func (i *Issue) Reject(reason string, actor Actor, at time.Time) error {
	if actor.Role != RoleAdmin {
		return ErrForbidden
	}
	if reason == "" {
		return ErrReasonRequired
	}
	if i.Status != StatusPending {
		return ErrInvalidTransition
	}
	i.Status = StatusRejected
	i.append(StatusRejected, "Rejected: "+reason, actor, at)
	return nil
}

// SetStatus applies a staff-driven status update. Only the assigned staff may
// update; an admin may additionally close a resolved issue. Setting the
// current status is an idempotent no-op: changed is false and no timeline
// entry is appended.
func (i *Issue) SetStatus(next Status, message string, actor Actor, at time.Time) (changed bool, err error) {
	if next == i.Status {
		return false, nil
	}
	switch actor.Role {
	case RoleStaff:
		if i.StaffAssigned == nil || i.StaffAssigned.Email != actor.Email {
			return false, ErrNotAssignedStaff
		}
	case RoleAdmin:
		if next != StatusClosed {
			return false, ErrForbidden
		}
	default:
		return false, ErrForbidden
	}
	if !i.Status.CanTransitionTo(next) {
		return false, ErrInvalidTransition
	}
	i.Status = next
	if message == "" {
		message = "Status updated to " + string(next)
	}
	i.append(next, message, actor, at)
	return true, nil
}

// ApplyEdit updates citizen-editable fields. Only the reporter may edit, and
// only while the issue is still pending. Edits do not touch the timeline.
func (i *Issue) ApplyEdit(title, description string, category Category, location string, actor Actor) error {
	if actor.Email != i.ReporterEmail {
		return ErrForbidden
	}
	if i.Status != StatusPending {
		return ErrEditWindowClosed
	}
	if title != "" {
		i.Title = title
	}
	if description != "" {
		i.Description = description
	}
	if category != "" {
		i.Category = category
	}
	if location != "" {
		i.Location = location
	}
	return nil
}

// CanDelete reports whether actor may delete the issue: the reporter while
// Pending or Rejected, an admin once Rejected.
func (i *Issue) CanDelete(actor Actor) error {
	switch {
	case actor.Email == i.ReporterEmail:
		if i.Status != StatusPending && i.Status != StatusRejected {
			return ErrDeleteNotAllowed
		}
		return nil
	case actor.Role == RoleAdmin:
		if i.Status != StatusRejected {
			return ErrDeleteNotAllowed
		}
		return nil
	default:
		return ErrForbidden
	}
}

// Upvote adds the actor to the upvote set. Only citizens vote; staff and
// admin act on issues through the lifecycle operations instead. The reporter
// may not upvote their own issue; a duplicate upvote is a no-op (set
// semantics, not a counter).
func (i *Issue) Upvote(actor Actor) (added bool, err error) {
	if actor.Role != RoleCitizen {
		return false, ErrForbidden
	}
	if actor.Email == i.ReporterEmail {
		return false, ErrOwnUpvote
	}
	for _, e := range i.Upvotes {
		if e == actor.Email {
			return false, nil
		}
	}
	i.Upvotes = append(i.Upvotes, actor.Email)
	return true, nil
}

// Boost raises the priority to High. Only the reporter may boost, and only
// once: boosting an already-High issue is refused so it can never be charged
// twice.
func (i *Issue) Boost(actor Actor, at time.Time) error {
	if actor.Email != i.ReporterEmail {
		return ErrForbidden
	}
	if i.Priority == PriorityHigh {
		return ErrAlreadyBoosted
	}
	i.Priority = PriorityHigh
	i.append(i.Status, "Priority boosted to High", actor, at)
	return nil
}

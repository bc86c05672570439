package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// ReportIssueInput carries all data needed to report a new issue.
type ReportIssueInput struct {
	Actor       domain.Actor
	Title       string
	Description string
	Category    domain.Category
	Location    string
	ImageURL    string
}

// ListIssuesInput carries the parameters for the shared issue listing.
type ListIssuesInput struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListIssuesResult is returned by List.
type ListIssuesResult struct {
	Items      []*domain.Issue
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CitizenStats summarises a reporter's issues for their dashboard.
type CitizenStats struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
}

// AdminStats summarises the whole store for the admin dashboard.
type AdminStats struct {
	Total      int64           `json:"total"`
	Open       int64           `json:"open"`
	ByStatus   []StatusCount   `json:"byStatus"`
	ByCategory []CategoryCount `json:"byCategory"`
}

// StaffStats summarises a staff member's assigned workload.
type StaffStats struct {
	Assigned int64         `json:"assigned"`
	ByStatus []StatusCount `json:"byStatus"`
}

// IssueService defines the use-case operations on issues. Every mutation
// re-checks the actor relationship server-side; the state machine in
// domain.Issue decides legality and appends the timeline entry.
type IssueService interface {
	Report(ctx context.Context, in ReportIssueInput) (*domain.Issue, error)
	Get(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, in ListIssuesInput) (*ListIssuesResult, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Issue, error)
	ListAssigned(ctx context.Context, actor domain.Actor) ([]*domain.Issue, error)

	Edit(ctx context.Context, actor domain.Actor, id string, edit IssueEdit) (*domain.Issue, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Assign(ctx context.Context, actor domain.Actor, id, staffEmail string) (*domain.Issue, error)
	Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.Issue, error)
	// SetStatus applies a staff-driven status update. The returned flag is
	// false when the target equals the current status (idempotent no-op).
	SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.Status, message string) (*domain.Issue, bool, error)
	Upvote(ctx context.Context, actor domain.Actor, id string) (*domain.Issue, error)

	StatsForCitizen(ctx context.Context, actor domain.Actor) (*CitizenStats, error)
	StatsForAdmin(ctx context.Context) (*AdminStats, error)
	StatsForStaff(ctx context.Context, actor domain.Actor) (*StaffStats, error)
}

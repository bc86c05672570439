package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type issueService struct {
	issues    ports.IssueRepository
	users     ports.UserRepository
	freeLimit int
	log       zerolog.Logger
}

// NewIssueService returns an IssueService implementation. freeLimit is the
// maximum number of issues a non-premium citizen may report.
func NewIssueService(issues ports.IssueRepository, users ports.UserRepository, freeLimit int, log zerolog.Logger) ports.IssueService {
	if freeLimit <= 0 {
		freeLimit = 3
	}
	return &issueService{issues: issues, users: users, freeLimit: freeLimit, log: log}
}

// Report creates a new pending issue. The free-tier cap is enforced here
// against the stored reported-count; the UI check is advisory only.
func (s *issueService) Report(ctx context.Context, in ports.ReportIssueInput) (*domain.Issue, error) {
	reporter, err := s.users.FindByEmail(ctx, in.Actor.Email)
	if err != nil {
		return nil, err
	}
	if reporter.IsBlocked {
		return nil, domain.ErrUserBlocked
	}
	if !reporter.IsPremium && reporter.IssuesReported >= s.freeLimit {
		return nil, domain.ErrReportLimitReached
	}

	issue := domain.NewIssue(in.Actor, in.Title, in.Description, in.Category, in.Location, in.ImageURL, time.Now().UTC())

	created, err := s.issues.Create(ctx, issue)
	if err != nil {
		s.log.Error().Err(err).Str("reporter", in.Actor.Email).Msg("failed to create issue")
		return nil, err
	}

	if err := s.users.IncrementIssuesReported(ctx, in.Actor.Email, 1); err != nil {
		s.log.Warn().Err(err).Str("reporter", in.Actor.Email).Msg("failed to increment reported count")
	}

	s.log.Info().Str("issue", created.ID).Str("reporter", in.Actor.Email).Str("category", string(created.Category)).Msg("issue reported")
	return created, nil
}

func (s *issueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	return s.issues.FindByID(ctx, id)
}

func (s *issueService) List(ctx context.Context, in ports.ListIssuesInput) (*ports.ListIssuesResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.issues.List(ctx, ports.IssueFilter{
		Status:   in.Status,
		Category: in.Category,
		Search:   in.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListIssuesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *issueService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Issue, error) {
	return s.issues.ListByReporter(ctx, actor.Email)
}

func (s *issueService) ListAssigned(ctx context.Context, actor domain.Actor) ([]*domain.Issue, error) {
	return s.issues.ListByAssignee(ctx, actor.Email)
}

// Edit applies citizen edits. Legality (ownership, pending-only window) is
// decided by the domain; the stored record is the source of truth afterwards.
func (s *issueService) Edit(ctx context.Context, actor domain.Actor, id string, edit ports.IssueEdit) (*domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := issue.ApplyEdit(edit.Title, edit.Description, edit.Category, edit.Location, actor); err != nil {
		return nil, err
	}

	if err := s.issues.UpdateFields(ctx, id, ports.IssueEdit{
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Location:    issue.Location,
	}); err != nil {
		return nil, err
	}
	return s.issues.FindByID(ctx, id)
}

func (s *issueService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := issue.CanDelete(actor); err != nil {
		return err
	}
	if err := s.issues.Delete(ctx, id); err != nil {
		return err
	}

	// The cap counts live issues, so a deleted one returns its slot.
	if err := s.users.IncrementIssuesReported(ctx, issue.ReporterEmail, -1); err != nil {
		s.log.Warn().Err(err).Str("reporter", issue.ReporterEmail).Msg("failed to decrement reported count")
	}

	s.log.Info().Str("issue", id).Str("actor", actor.Email).Str("status", string(issue.Status)).Msg("issue deleted")
	return nil
}

// Assign sets the assigned staff member. The target must hold the staff role;
// the assignment transition itself is decided by the domain.
func (s *issueService) Assign(ctx context.Context, actor domain.Actor, id, staffEmail string) (*domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	staffUser, err := s.users.FindByEmail(ctx, staffEmail)
	if err != nil {
		return nil, err
	}
	if staffUser.Role != domain.RoleStaff {
		return nil, domain.ErrNotStaff
	}

	staff := domain.StaffRef{Email: staffUser.Email, Name: staffUser.Name, Department: staffUser.Department}
	if err := issue.Assign(staff, actor, time.Now().UTC()); err != nil {
		return nil, err
	}

	entry := issue.Timeline[len(issue.Timeline)-1]
	if err := s.issues.AssignStaff(ctx, id, staff, issue.Status, entry); err != nil {
		return nil, err
	}
	s.log.Info().Str("issue", id).Str("staff", staffEmail).Msg("issue assigned")
	return issue, nil
}

func (s *issueService) Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := issue.Reject(reason, actor, time.Now().UTC()); err != nil {
		return nil, err
	}

	entry := issue.Timeline[len(issue.Timeline)-1]
	if err := s.issues.SetStatus(ctx, id, issue.Status, entry); err != nil {
		return nil, err
	}
	s.log.Info().Str("issue", id).Str("reason", reason).Msg("issue rejected")
	return issue, nil
}

// SetStatus applies a staff-driven status update. Setting the current status
// is an idempotent no-op and writes nothing.
func (s *issueService) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.Status, message string) (*domain.Issue, bool, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	changed, err := issue.SetStatus(status, message, actor, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return issue, false, nil
	}

	entry := issue.Timeline[len(issue.Timeline)-1]
	if err := s.issues.SetStatus(ctx, id, issue.Status, entry); err != nil {
		return nil, false, err
	}
	s.log.Info().Str("issue", id).Str("status", string(status)).Str("actor", actor.Email).Msg("issue status updated")
	return issue, true, nil
}

// Upvote adds the caller to the upvote set. The repository write uses
// $addToSet so a concurrent duplicate still cannot grow the set twice.
func (s *issueService) Upvote(ctx context.Context, actor domain.Actor, id string) (*domain.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	added, err := issue.Upvote(actor)
	if err != nil {
		return nil, err
	}
	if added {
		if _, err := s.issues.AddUpvote(ctx, id, actor.Email); err != nil {
			return nil, err
		}
	}
	return issue, nil
}

func (s *issueService) StatsForCitizen(ctx context.Context, actor domain.Actor) (*ports.CitizenStats, error) {
	counts, err := s.issues.CountByStatus(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return &ports.CitizenStats{Total: total, ByStatus: counts}, nil
}

func (s *issueService) StatsForAdmin(ctx context.Context) (*ports.AdminStats, error) {
	byStatus, err := s.issues.CountByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	byCategory, err := s.issues.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	var total, open int64
	for _, c := range byStatus {
		total += c.Count
		switch domain.Status(c.Status) {
		case domain.StatusPending, domain.StatusInProgress, domain.StatusWorking:
			open += c.Count
		}
	}
	return &ports.AdminStats{Total: total, Open: open, ByStatus: byStatus, ByCategory: byCategory}, nil
}

func (s *issueService) StatsForStaff(ctx context.Context, actor domain.Actor) (*ports.StaffStats, error) {
	counts, err := s.issues.CountAssignedByStatus(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	var assigned int64
	for _, c := range counts {
		assigned += c.Count
	}
	return &ports.StaffStats{Assigned: assigned, ByStatus: counts}, nil
}

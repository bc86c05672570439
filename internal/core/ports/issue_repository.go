package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// IssueFilter carries the query parameters for listing issues.
type IssueFilter struct {
	Status   string // optional: filter by status
	Category string // optional: filter by category
	Search   string // optional: partial match on title or description
	Page     int    // 1-based
	Limit    int    // max rows per page (capped by the service)
}

// IssueEdit carries the citizen-editable fields for a pending issue.
type IssueEdit struct {
	Title       string
	Description string
	Category    domain.Category
	Location    string
}

// StatusCount is one bucket of a stats aggregation.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// CategoryCount is one category bucket of a stats aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// IssueRepository defines persistence operations for issues. Transition
// writes are atomic: the status/priority/assignee change and the timeline
// append land in a single update so the audit log can never drift from the
// state it records.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]*domain.Issue, int64, error)
	ListByReporter(ctx context.Context, email string) ([]*domain.Issue, error)
	ListByAssignee(ctx context.Context, email string) ([]*domain.Issue, error)
	Delete(ctx context.Context, id string) error

	UpdateFields(ctx context.Context, id string, edit IssueEdit) error
	SetStatus(ctx context.Context, id string, status domain.Status, entry domain.TimelineEntry) error
	AssignStaff(ctx context.Context, id string, staff domain.StaffRef, status domain.Status, entry domain.TimelineEntry) error
	SetPriority(ctx context.Context, id string, priority domain.Priority, entry domain.TimelineEntry) error
	// AddUpvote adds email to the upvote set ($addToSet semantics); it reports
	// whether the set actually grew.
	AddUpvote(ctx context.Context, id string, email string) (bool, error)

	CountByStatus(ctx context.Context, reporterEmail string) ([]StatusCount, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountAssignedByStatus(ctx context.Context, staffEmail string) ([]StatusCount, error)
}

package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type reportIssueRequest struct {
	Title       string `json:"title"       validate:"required,min=5,max=120"`
	Description string `json:"description" validate:"required,min=10"`
	Category    string `json:"category"    validate:"required,oneof=Road Water Electricity Sanitation Streetlight Other"`
	Location    string `json:"location"    validate:"required"`
	ImageURL    string `json:"image_url"   validate:"omitempty,url"`
}

type editIssueRequest struct {
	Title       string `json:"title"       validate:"omitempty,min=5,max=120"`
	Description string `json:"description" validate:"omitempty,min=10"`
	Category    string `json:"category"    validate:"omitempty,oneof=Road Water Electricity Sanitation Streetlight Other"`
	Location    string `json:"location"`
}

type assignIssueRequest struct {
	StaffEmail string `json:"staff_email" validate:"required,email"`
}

type rejectIssueRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type updateStatusRequest struct {
	Status  string `json:"status"  validate:"required,oneof=Pending In-Progress Working Resolved Closed"`
	Message string `json:"message" validate:"omitempty,max=500"`
}

// --- Response types ---
// Response-only types owned by the transport layer, kept separate from
// ports/domain types so the JSON contract is not coupled to internal changes.

type staffResponse struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type timelineEntryResponse struct {
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	UpdatedBy    string    `json:"updated_by"`
	UpdaterEmail string    `json:"updater_email"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type issueResponse struct {
	ID            string                  `json:"id"`
	ReporterEmail string                  `json:"reporter_email"`
	ReporterName  string                  `json:"reporter_name"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	Location      string                  `json:"location"`
	ImageURL      string                  `json:"image_url,omitempty"`
	Status        string                  `json:"status"`
	Priority      string                  `json:"priority"`
	Upvotes       int                     `json:"upvotes"`
	StaffAssigned *staffResponse          `json:"staff_assigned,omitempty"`
	Timeline      []timelineEntryResponse `json:"timeline"`
	CreatedAt     time.Time               `json:"created_at"`
}

// issueSummaryResponse is the lightweight item used in list responses.
// It intentionally omits the timeline to keep payloads small.
type issueSummaryResponse struct {
	ID            string         `json:"id"`
	ReporterName  string         `json:"reporter_name"`
	Title         string         `json:"title"`
	Category      string         `json:"category"`
	Location      string         `json:"location"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	Upvotes       int            `json:"upvotes"`
	StaffAssigned *staffResponse `json:"staff_assigned,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listIssuesResponse struct {
	Data       []issueSummaryResponse `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

type issueListResponse struct {
	Data []issueSummaryResponse `json:"data"`
}

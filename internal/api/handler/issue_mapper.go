package handler

import (
	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toIssueResponse(i *domain.Issue) issueResponse {
	return issueResponse{
		ID:            i.ID,
		ReporterEmail: i.ReporterEmail,
		ReporterName:  i.ReporterName,
		Title:         i.Title,
		Description:   i.Description,
		Category:      string(i.Category),
		Location:      i.Location,
		ImageURL:      i.ImageURL,
		Status:        string(i.Status),
		Priority:      string(i.Priority),
		Upvotes:       len(i.Upvotes),
		StaffAssigned: toStaffResponse(i.StaffAssigned),
		Timeline:      toTimelineResponse(i.Timeline),
		CreatedAt:     i.CreatedAt.UTC(),
	}
}

func toStaffResponse(s *domain.StaffRef) *staffResponse {
	if s == nil {
		return nil
	}
	return &staffResponse{Email: s.Email, Name: s.Name, Department: s.Department}
}

func toTimelineResponse(entries []domain.TimelineEntry) []timelineEntryResponse {
	out := make([]timelineEntryResponse, len(entries))
	for idx, e := range entries {
		out[idx] = timelineEntryResponse{
			Status:       string(e.Status),
			Message:      e.Message,
			UpdatedBy:    e.UpdatedBy,
			UpdaterEmail: e.UpdaterEmail,
			UpdatedAt:    e.UpdatedAt.UTC(),
		}
	}
	return out
}

func toSummaryResponse(i *domain.Issue) issueSummaryResponse {
	return issueSummaryResponse{
		ID:            i.ID,
		ReporterName:  i.ReporterName,
		Title:         i.Title,
		Category:      string(i.Category),
		Location:      i.Location,
		Status:        string(i.Status),
		Priority:      string(i.Priority),
		Upvotes:       len(i.Upvotes),
		StaffAssigned: toStaffResponse(i.StaffAssigned),
		CreatedAt:     i.CreatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListIssuesResult) listIssuesResponse {
	items := make([]issueSummaryResponse, len(r.Items))
	for idx, i := range r.Items {
		items[idx] = toSummaryResponse(i)
	}
	return listIssuesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toIssueListResponse(issues []*domain.Issue) issueListResponse {
	items := make([]issueSummaryResponse, len(issues))
	for idx, i := range issues {
		items[idx] = toSummaryResponse(i)
	}
	return issueListResponse{Data: items}
}

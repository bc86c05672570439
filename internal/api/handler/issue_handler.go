package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/civic-api/internal/api/metrics"
	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// IssueHandler handles HTTP requests for issue operations.
type IssueHandler struct {
	service ports.IssueService
}

func NewIssueHandler(service ports.IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// Report handles POST /v1/citizen/issues.
//
// @Summary      Report a new issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reportIssueRequest  true  "Issue details"
// @Success      201   {object}  issueResponse
// @Failure      403   {object}  errorResponse  "blocked account or free report limit reached"
// @Failure      422   {object}  errorResponse
// @Router       /v1/citizen/issues [post]
func (h *IssueHandler) Report(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reportIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issue, err := h.service.Report(c.Request().Context(), ports.ReportIssueInput{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}

	metrics.IssuesReportedTotal.WithLabelValues(string(issue.Category)).Inc()
	return c.JSON(http.StatusCreated, toIssueResponse(issue))
}

// Get handles GET /v1/issues/:id.
//
// @Summary      Get an issue with its full timeline
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  issueResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// List handles GET /v1/issues with optional status/category/search filters.
//
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Partial match on title or description"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listIssuesResponse
// @Router       /v1/issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListIssuesInput{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListMine handles GET /v1/citizen/issues.
//
// @Summary      List the caller's reported issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  issueListResponse
// @Router       /v1/citizen/issues [get]
func (h *IssueHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	issues, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueListResponse(issues))
}

// ListAssigned handles GET /v1/staff/issues.
//
// @Summary      List issues assigned to the caller
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  issueListResponse
// @Router       /v1/staff/issues [get]
func (h *IssueHandler) ListAssigned(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	issues, err := h.service.ListAssigned(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueListResponse(issues))
}

// Edit handles PATCH /v1/citizen/issues/:id.
//
// @Summary      Edit a pending issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Issue ID"
// @Param        body  body      editIssueRequest  true  "Fields to change"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse  "edit window closed"
// @Router       /v1/citizen/issues/{id} [patch]
func (h *IssueHandler) Edit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req editIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issue, err := h.service.Edit(c.Request().Context(), actor, c.Param("id"), ports.IssueEdit{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// Delete handles DELETE /v1/citizen/issues/:id and /v1/admin/issues/:id.
//
// @Summary      Delete an issue
// @Tags         issues
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/citizen/issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign handles POST /v1/admin/issues/:id/assign.
//
// @Summary      Assign an issue to a staff member
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue ID"
// @Param        body  body      assignIssueRequest  true  "Staff to assign"
// @Success      200   {object}  issueResponse
// @Failure      422   {object}  errorResponse  "target is not staff or transition not allowed"
// @Router       /v1/admin/issues/{id}/assign [post]
func (h *IssueHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	before, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	issue, err := h.service.Assign(c.Request().Context(), actor, c.Param("id"), req.StaffEmail)
	if err != nil {
		return err
	}

	if issue.Status != before.Status {
		metrics.IssueTransitionsTotal.WithLabelValues(string(before.Status), string(issue.Status)).Inc()
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// Reject handles POST /v1/admin/issues/:id/reject.
//
// @Summary      Reject a pending issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue ID"
// @Param        body  body      rejectIssueRequest  true  "Rejection reason"
// @Success      200   {object}  issueResponse
// @Failure      422   {object}  errorResponse  "missing reason or issue not pending"
// @Router       /v1/admin/issues/{id}/reject [post]
func (h *IssueHandler) Reject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rejectIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issue, err := h.service.Reject(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}

	metrics.IssueTransitionsTotal.WithLabelValues(string(domain.StatusPending), string(domain.StatusRejected)).Inc()
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// UpdateStatus handles PATCH /v1/staff/issues/:id/status and
// /v1/admin/issues/:id/status.
//
// @Summary      Update an issue's status
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Issue ID"
// @Param        body  body      updateStatusRequest  true  "Target status and optional note"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse  "not the assigned staff"
// @Failure      422   {object}  errorResponse  "transition not allowed"
// @Router       /v1/staff/issues/{id}/status [patch]
func (h *IssueHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	before, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	issue, changed, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.Status(req.Status), req.Message)
	if err != nil {
		return err
	}

	if changed {
		metrics.IssueTransitionsTotal.WithLabelValues(string(before.Status), string(issue.Status)).Inc()
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// Upvote handles POST /v1/issues/:id/upvote.
//
// @Summary      Upvote an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  issueResponse
// @Failure      403  {object}  errorResponse  "own issue"
// @Router       /v1/issues/{id}/upvote [post]
func (h *IssueHandler) Upvote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	before, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	issue, err := h.service.Upvote(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	if len(issue.Upvotes) > len(before.Upvotes) {
		metrics.UpvotesTotal.WithLabelValues("added").Inc()
	} else {
		metrics.UpvotesTotal.WithLabelValues("duplicate").Inc()
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// CitizenStats handles GET /v1/citizen/issues/stats.
//
// @Summary      Stats for the caller's reported issues
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.CitizenStats
// @Router       /v1/citizen/issues/stats [get]
func (h *IssueHandler) CitizenStats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.StatsForCitizen(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// AdminStats handles GET /v1/admin/stats.
//
// @Summary      Store-wide issue stats
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AdminStats
// @Router       /v1/admin/stats [get]
func (h *IssueHandler) AdminStats(c echo.Context) error {
	stats, err := h.service.StatsForAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// StaffStats handles GET /v1/staff/stats.
//
// @Summary      Assigned-workload stats for the caller
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StaffStats
// @Router       /v1/staff/stats [get]
func (h *IssueHandler) StaffStats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.StatsForStaff(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

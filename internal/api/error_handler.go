package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNoIdentity):
		return http.StatusUnauthorized, "missing identity"

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserBlocked):
		return http.StatusForbidden, "account is blocked"
	case errors.Is(err, domain.ErrNotAssignedStaff):
		return http.StatusForbidden, "issue is assigned to another staff member"
	case errors.Is(err, domain.ErrOwnUpvote):
		return http.StatusForbidden, "cannot upvote your own issue"
	case errors.Is(err, domain.ErrDeleteNotAllowed):
		return http.StatusForbidden, "issue can no longer be deleted"
	case errors.Is(err, domain.ErrReportLimitReached):
		return http.StatusForbidden, "free report limit reached, subscribe to report more issues"

	case errors.Is(err, domain.ErrIssueNotFound):
		return http.StatusNotFound, "issue not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"

	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrEditWindowClosed):
		return http.StatusConflict, "issue can only be edited while pending"
	case errors.Is(err, domain.ErrAlreadyBoosted):
		return http.StatusConflict, "issue priority is already high"
	case errors.Is(err, domain.ErrAlreadyPremium):
		return http.StatusConflict, "subscription already active"
	case errors.Is(err, domain.ErrPaymentCancelled):
		return http.StatusConflict, "payment was cancelled, please try again"

	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrReasonRequired):
		return http.StatusUnprocessableEntity, "a rejection reason is required"
	case errors.Is(err, domain.ErrNotStaff):
		return http.StatusUnprocessableEntity, "target user is not a staff member"

	case errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusBadGateway, "payment verification failed, please contact support"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

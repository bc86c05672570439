package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec, body
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrNoIdentity, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserBlocked, http.StatusForbidden},
		{domain.ErrNotAssignedStaff, http.StatusForbidden},
		{domain.ErrOwnUpvote, http.StatusForbidden},
		{domain.ErrDeleteNotAllowed, http.StatusForbidden},
		{domain.ErrReportLimitReached, http.StatusForbidden},
		{domain.ErrIssueNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrEditWindowClosed, http.StatusConflict},
		{domain.ErrAlreadyBoosted, http.StatusConflict},
		{domain.ErrAlreadyPremium, http.StatusConflict},
		{domain.ErrPaymentCancelled, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrReasonRequired, http.StatusUnprocessableEntity},
		{domain.ErrNotStaff, http.StatusUnprocessableEntity},
		{domain.ErrPaymentFailed, http.StatusBadGateway},
	}

	for _, tc := range cases {
		rec, body := render(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%v: got %d, want %d", tc.err, rec.Code, tc.code)
		}
		if body.Error == "" {
			t.Errorf("%v: empty error message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_WrappedErrorStillMaps(t *testing.T) {
	rec, _ := render(t, errors.Join(errors.New("load issue"), domain.ErrIssueNotFound))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped domain error not mapped, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if body.Error != "short and stout" {
		t.Fatalf("message not preserved: %q", body.Error)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := render(t, errors.New("mongo: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}

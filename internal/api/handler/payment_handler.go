package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/civic-api/internal/api/metrics"
	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// PaymentHandler handles the redirect-and-verify checkout flow and payment
// history.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createCheckoutRequest struct {
	Type    string `json:"type"     validate:"required,oneof=boost subscription"`
	IssueID string `json:"issue_id" validate:"required_if=Type boost"`
}

type verifyCheckoutRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type paymentResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	IssueID       string    `json:"issue_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type paymentListResponse struct {
	Data []paymentResponse `json:"data"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
		IssueID:       p.IssueID,
		CreatedAt:     p.CreatedAt.UTC(),
	}
}

// CreateCheckoutSession handles POST /v1/citizen/payments/create-checkout-session.
// The returned redirect URL is opaque; the caller hands control to the
// provider and comes back through Verify.
//
// @Summary      Start a checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCheckoutRequest  true  "Purchase type and, for boosts, the issue"
// @Success      201   {object}  ports.CheckoutSession
// @Failure      403   {object}  errorResponse  "not the reporter"
// @Failure      409   {object}  errorResponse  "already boosted or already premium"
// @Router       /v1/citizen/payments/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.service.CreateCheckoutSession(c.Request().Context(), ports.CreateCheckoutInput{
		Actor:   actor,
		Type:    domain.PaymentType(req.Type),
		IssueID: req.IssueID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

// Verify handles POST /v1/citizen/payments/verify. A paid verdict records the
// payment and applies its side effect; a cancelled session may be retried; a
// failed one may not.
//
// @Summary      Verify a checkout session after the provider redirect
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyCheckoutRequest  true  "Session to verify"
// @Success      200   {object}  paymentResponse
// @Failure      409   {object}  errorResponse  "payment cancelled, may retry"
// @Failure      502   {object}  errorResponse  "verification failed, contact support"
// @Router       /v1/citizen/payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req verifyCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.service.VerifyCheckout(c.Request().Context(), ports.VerifyCheckoutInput{
		Actor:     actor,
		SessionID: req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentCancelled):
			metrics.PaymentsVerifiedTotal.WithLabelValues("unknown", "cancelled").Inc()
		case errors.Is(err, domain.ErrPaymentFailed):
			metrics.PaymentsVerifiedTotal.WithLabelValues("unknown", "failed").Inc()
		}
		return err
	}

	metrics.PaymentsVerifiedTotal.WithLabelValues(string(payment.Type), "paid").Inc()
	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// History handles GET /v1/citizen/payments: the caller's payment records,
// newest first, used to render invoices.
//
// @Summary      List the caller's payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  paymentListResponse
// @Router       /v1/citizen/payments [get]
func (h *PaymentHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	payments, err := h.service.History(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	items := make([]paymentResponse, len(payments))
	for idx, p := range payments {
		items[idx] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, paymentListResponse{Data: items})
}

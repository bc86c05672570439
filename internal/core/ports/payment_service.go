package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// CreateCheckoutInput starts a checkout session for a boost or subscription.
// IssueID is required for boosts and ignored for subscriptions.
type CreateCheckoutInput struct {
	Actor   domain.Actor
	Type    domain.PaymentType
	IssueID string
}

// CheckoutSession is what the caller needs to hand control to the provider.
// The redirect URL is opaque to this service.
type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// VerifyCheckoutInput identifies the session to verify after the provider
// redirects back.
type VerifyCheckoutInput struct {
	Actor     domain.Actor
	SessionID string
}

// PaymentService implements the redirect-and-verify checkout flow. The
// provider's verify response is the authoritative record of a completed
// payment; side effects (priority boost, premium upgrade) are applied only
// after a paid verdict.
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (*CheckoutSession, error)
	VerifyCheckout(ctx context.Context, in VerifyCheckoutInput) (*domain.Payment, error)
	History(ctx context.Context, actor domain.Actor) ([]*domain.Payment, error)
}

package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// ProviderSessionRequest is the payload sent to the external checkout
// provider when opening a session. Metadata is echoed back on verification.
type ProviderSessionRequest struct {
	Amount    int64
	Currency  string
	Type      domain.PaymentType
	IssueID   string
	UserEmail string
	UserName  string
}

// ProviderSession is the provider's handle for a newly opened session.
type ProviderSession struct {
	SessionID   string
	RedirectURL string
}

// ProviderVerification is the provider's authoritative verdict on a session.
type ProviderVerification struct {
	Status        domain.CheckoutStatus
	TransactionID string
	AmountPaid    int64
	Type          domain.PaymentType
	IssueID       string
	UserEmail     string
}

// CheckoutProvider abstracts the external payment collaborator. Only its
// documented request/response contract is modelled here.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req ProviderSessionRequest) (*ProviderSession, error)
	VerifySession(ctx context.Context, sessionID string) (*ProviderVerification, error)
}

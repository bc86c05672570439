package domain

import (
	"errors"
	"time"
)

// PaymentType distinguishes a one-off issue boost from a premium subscription.
type PaymentType string

const (
	PaymentBoost        PaymentType = "boost"
	PaymentSubscription PaymentType = "subscription"
)

// CheckoutStatus is the provider's verdict on a checkout session.
type CheckoutStatus string

const (
	CheckoutPaid      CheckoutStatus = "paid"
	CheckoutCancelled CheckoutStatus = "cancelled"
	CheckoutFailed    CheckoutStatus = "failed"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentCancelled means the user abandoned checkout; they may try again.
	ErrPaymentCancelled = errors.New("payment cancelled")
	// ErrPaymentFailed means the provider could not verify the session; the
	// user should contact support rather than retry.
	ErrPaymentFailed = errors.New("payment verification failed")
)

// Payment is the authoritative record of a completed checkout. It is written
// once when the provider verifies the session and read-only thereafter.
type Payment struct {
	ID            string      `json:"id" bson:"_id,omitempty"`
	UserEmail     string      `json:"userEmail" bson:"user_email"`
	UserName      string      `json:"userName" bson:"user_name"`
	Type          PaymentType `json:"type" bson:"type"`
	Amount        int64       `json:"amount" bson:"amount"`
	TransactionID string      `json:"transactionId" bson:"transaction_id"`
	IssueID       string      `json:"issueId,omitempty" bson:"issue_id,omitempty"`
	CreatedAt     time.Time   `json:"createdAt" bson:"created_at"`
}

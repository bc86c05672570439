package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// PaymentRepository persists verified payments. Records are write-once.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, email string) ([]*domain.Payment, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// Prices configures the fixed charge amounts. These are configuration, not
// protocol: the provider is told the amount, and verification checks it back.
type Prices struct {
	Boost        int64
	Subscription int64
	Currency     string
}

type paymentService struct {
	payments ports.PaymentRepository
	issues   ports.IssueRepository
	users    ports.UserRepository
	provider ports.CheckoutProvider
	prices   Prices
	log      zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(
	payments ports.PaymentRepository,
	issues ports.IssueRepository,
	users ports.UserRepository,
	provider ports.CheckoutProvider,
	prices Prices,
	log zerolog.Logger,
) ports.PaymentService {
	if prices.Boost <= 0 {
		prices.Boost = 100
	}
	if prices.Subscription <= 0 {
		prices.Subscription = 1000
	}
	if prices.Currency == "" {
		prices.Currency = "usd"
	}
	return &paymentService{
		payments: payments,
		issues:   issues,
		users:    users,
		provider: provider,
		prices:   prices,
		log:      log,
	}
}

// CreateCheckoutSession validates the purchase and opens a provider session.
// Boosts are refused up front when the issue is not the payer's or is already
// High, so an impossible purchase can never be charged.
func (s *paymentService) CreateCheckoutSession(ctx context.Context, in ports.CreateCheckoutInput) (*ports.CheckoutSession, error) {
	var amount int64
	switch in.Type {
	case domain.PaymentBoost:
		issue, err := s.issues.FindByID(ctx, in.IssueID)
		if err != nil {
			return nil, err
		}
		if issue.ReporterEmail != in.Actor.Email {
			return nil, domain.ErrForbidden
		}
		if issue.Priority == domain.PriorityHigh {
			return nil, domain.ErrAlreadyBoosted
		}
		amount = s.prices.Boost
	case domain.PaymentSubscription:
		user, err := s.users.FindByEmail(ctx, in.Actor.Email)
		if err != nil {
			return nil, err
		}
		if user.IsPremium {
			return nil, domain.ErrAlreadyPremium
		}
		amount = s.prices.Subscription
	default:
		return nil, fmt.Errorf("unknown payment type %q", in.Type)
	}

	session, err := s.provider.CreateSession(ctx, ports.ProviderSessionRequest{
		Amount:    amount,
		Currency:  s.prices.Currency,
		Type:      in.Type,
		IssueID:   in.IssueID,
		UserEmail: in.Actor.Email,
		UserName:  in.Actor.Name,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user", in.Actor.Email).Str("type", string(in.Type)).Msg("failed to open checkout session")
		return nil, err
	}

	s.log.Info().Str("session", session.SessionID).Str("user", in.Actor.Email).Str("type", string(in.Type)).Msg("checkout session created")
	return &ports.CheckoutSession{SessionID: session.SessionID, RedirectURL: session.RedirectURL}, nil
}

// VerifyCheckout asks the provider for its verdict and, on a paid session,
// records the payment and applies its side effect. Re-verifying a session
// whose transaction is already recorded replays the stored payment without
// charging or boosting twice.
func (s *paymentService) VerifyCheckout(ctx context.Context, in ports.VerifyCheckoutInput) (*domain.Payment, error) {
	v, err := s.provider.VerifySession(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("verify checkout: %w", err)
	}

	switch v.Status {
	case domain.CheckoutPaid:
		// fall through to recording
	case domain.CheckoutCancelled:
		return nil, domain.ErrPaymentCancelled
	default:
		return nil, domain.ErrPaymentFailed
	}

	existing, err := s.payments.FindByTransactionID(ctx, v.TransactionID)
	switch {
	case err == nil:
		// Replay: the payment is already recorded. Re-apply the side effect
		// in case an earlier attempt failed between recording and applying.
		if err := s.applySideEffect(ctx, v, in.Actor); err != nil {
			return nil, err
		}
		s.log.Info().Str("transaction", v.TransactionID).Msg("idempotent verify replay")
		return existing, nil
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return nil, err
	}

	payment := &domain.Payment{
		UserEmail:     v.UserEmail,
		UserName:      in.Actor.Name,
		Type:          v.Type,
		Amount:        v.AmountPaid,
		TransactionID: v.TransactionID,
		IssueID:       v.IssueID,
		CreatedAt:     time.Now().UTC(),
	}

	// Record before applying the side effect. The unique transaction index
	// makes the record replay-safe, so a failure past this point is healed by
	// re-verifying, while a failed insert leaves nothing applied.
	recorded, err := s.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	if err := s.applySideEffect(ctx, v, in.Actor); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction", v.TransactionID).
		Str("user", v.UserEmail).
		Str("type", string(v.Type)).
		Int64("amount", v.AmountPaid).
		Msg("payment verified")
	return recorded, nil
}

// applySideEffect makes the purchased effect hold. Both effects are
// idempotent so a verify replay can re-run them safely: a boost that already
// landed is not an error, and SetPremium is a plain flag write.
func (s *paymentService) applySideEffect(ctx context.Context, v *ports.ProviderVerification, actor domain.Actor) error {
	switch v.Type {
	case domain.PaymentBoost:
		if err := s.applyBoost(ctx, v.IssueID, actor); err != nil && !errors.Is(err, domain.ErrAlreadyBoosted) {
			return err
		}
		return nil
	case domain.PaymentSubscription:
		return s.users.SetPremium(ctx, v.UserEmail)
	}
	return nil
}

func (s *paymentService) applyBoost(ctx context.Context, issueID string, actor domain.Actor) error {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	if err := issue.Boost(actor, time.Now().UTC()); err != nil {
		return err
	}
	entry := issue.Timeline[len(issue.Timeline)-1]
	return s.issues.SetPriority(ctx, issueID, domain.PriorityHigh, entry)
}

func (s *paymentService) History(ctx context.Context, actor domain.Actor) ([]*domain.Payment, error) {
	return s.payments.ListByUser(ctx, actor.Email)
}

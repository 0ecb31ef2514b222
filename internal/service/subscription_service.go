package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/payment"
	"github.com/nxtrix/account-service/internal/repository"
)

// Billing periods are fixed: a monthly cycle charges every 30 days, an
// annual cycle every 365.
const (
	monthlyBillingPeriod = 30 * 24 * time.Hour
	annualBillingPeriod  = 365 * 24 * time.Hour
)

// subscriptionService implements SubscriptionService interface
type subscriptionService struct {
	subRepo     repository.SubscriptionRepository
	processor   payment.Processor
	trialLength time.Duration
	now         func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	processor payment.Processor,
	trialLength time.Duration,
) SubscriptionService {
	return &subscriptionService{
		subRepo:     subRepo,
		processor:   processor,
		trialLength: trialLength,
		now:         time.Now,
	}
}

// GetCurrent returns the user's subscription. A user without a row gets a
// synthesized starter trial anchored at now; the defensive default is not
// persisted.
func (s *subscriptionService) GetCurrent(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			now := s.now()
			return &domain.Subscription{
				UserID:     userID,
				Tier:       domain.TierStarter,
				Status:     domain.StatusTrial,
				TrialStart: now,
				TrialEnd:   now.Add(s.trialLength),
				Currency:   "USD",
			}, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// Upgrade charges the user and activates the paid terms. Any prior state,
// trial or paid, is overwritten; a declined charge leaves the row untouched.
func (s *subscriptionService) Upgrade(ctx context.Context, userID string, tier domain.Tier, cycle domain.BillingCycle) (*domain.Subscription, error) {
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("tier %q: %w", tier, ErrInvalidTier)
	}
	if !domain.ValidBillingCycle(cycle) {
		return nil, fmt.Errorf("billing cycle %q: %w", cycle, ErrInvalidBillingCycle)
	}

	price, _ := domain.PriceFor(tier)
	amount := price.Amount(cycle)

	_, err := s.processor.Charge(ctx, payment.ChargeRequest{
		UserID:       userID,
		Tier:         string(tier),
		BillingCycle: string(cycle),
		AmountCents:  amount,
		Currency:     "USD",
		Description:  fmt.Sprintf("NXTRIX %s plan, %s billing", tier, cycle),
	})
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, fmt.Errorf("upgrade to %s: %w", tier, ErrPaymentDeclined)
		}
		return nil, fmt.Errorf("failed to charge upgrade: %w", err)
	}

	now := s.now()
	nextBilling := now.Add(monthlyBillingPeriod)
	if cycle == domain.CycleAnnual {
		nextBilling = now.Add(annualBillingPeriod)
	}

	sub := &domain.Subscription{
		UserID:            userID,
		Tier:              tier,
		Status:            domain.StatusActive,
		BillingCycle:      &cycle,
		AmountCents:       amount,
		Currency:          "USD",
		SubscriptionStart: &now,
		NextBillingDate:   &nextBilling,
	}

	if err := s.subRepo.Activate(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	return s.subRepo.GetByUserID(ctx, userID)
}

// Cancel moves the subscription to the canceled status. The only way back
// is another Upgrade.
func (s *subscriptionService) Cancel(ctx context.Context, userID string) error {
	if err := s.subRepo.SetStatus(ctx, userID, domain.StatusCanceled); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

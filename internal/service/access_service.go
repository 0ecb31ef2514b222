package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/entitlement"
)

// AccessReason explains an access gate decision.
type AccessReason string

const (
	ReasonGranted              AccessReason = "granted"
	ReasonNotAuthenticated     AccessReason = "not_authenticated"
	ReasonTrialExpired         AccessReason = "trial_expired"
	ReasonPaymentLapsed        AccessReason = "payment_lapsed"
	ReasonSubscriptionInactive AccessReason = "subscription_inactive"
)

// AccessDecision is the outcome of the access gate. Denials for entitlement
// reasons are expected outcomes, not errors; they route the caller to the
// upgrade flow.
type AccessDecision struct {
	Allowed            bool
	Reason             AccessReason
	TrialDaysRemaining *int
	UserID             string
	Tier               domain.Tier
}

// accessService implements AccessService interface
type accessService struct {
	auth AuthService
	subs SubscriptionService
	now  func() time.Time
}

// NewAccessService creates a new access service
func NewAccessService(auth AuthService, subs SubscriptionService) AccessService {
	return &accessService{
		auth: auth,
		subs: subs,
		now:  time.Now,
	}
}

// CheckAccess resolves the session, fetches the subscription snapshot, and
// evaluates entitlement. Storage failures are the only error returns.
func (s *accessService) CheckAccess(ctx context.Context, sessionToken string) (*AccessDecision, error) {
	claims, err := s.auth.Authenticate(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return &AccessDecision{Allowed: false, Reason: ReasonNotAuthenticated}, nil
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	sub, err := s.subs.GetCurrent(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	now := s.now()
	trial := entitlement.EvaluateTrial(sub, now)

	decision := &AccessDecision{
		UserID: claims.UserID,
		Tier:   sub.Tier,
	}

	if trial.IsTrial && trial.IsExpired {
		decision.Reason = ReasonTrialExpired
		return decision, nil
	}

	if !entitlement.HasAccess(sub, now) {
		if sub.Status == domain.StatusActive {
			decision.Reason = ReasonPaymentLapsed
		} else {
			decision.Reason = ReasonSubscriptionInactive
		}
		return decision, nil
	}

	decision.Allowed = true
	decision.Reason = ReasonGranted
	if trial.IsTrial {
		days := trial.DaysRemaining
		decision.TrialDaysRemaining = &days
	}

	return decision, nil
}

// Package entitlement decides trial validity and feature access from a
// subscription snapshot and the current time. It performs no I/O; callers
// fetch the snapshot and pass "now" explicitly.
package entitlement

import (
	"time"

	"github.com/nxtrix/account-service/internal/domain"
)

// TrialStatus describes where a subscription stands in its trial window.
type TrialStatus struct {
	IsTrial       bool
	IsExpired     bool
	DaysRemaining int
}

// EvaluateTrial computes the trial status of a subscription at the given
// instant. The boundary instant trial_end itself is still valid: the trial
// expires strictly after trial_end. Non-trial subscriptions report a zero
// status.
func EvaluateTrial(sub *domain.Subscription, now time.Time) TrialStatus {
	if sub.Status != domain.StatusTrial {
		return TrialStatus{}
	}

	status := TrialStatus{IsTrial: true}
	if now.After(sub.TrialEnd) {
		status.IsExpired = true
		return status
	}

	remaining := sub.TrialEnd.Sub(now)
	status.DaysRemaining = int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	return status
}

// HasAccess reports whether the subscription grants access at the given
// instant. An active subscription whose next billing date has passed is
// treated as lapsed regardless of whether the payment collaborator has
// confirmed the miss.
func HasAccess(sub *domain.Subscription, now time.Time) bool {
	switch sub.Status {
	case domain.StatusTrial:
		return !now.After(sub.TrialEnd)
	case domain.StatusActive:
		if sub.NextBillingDate != nil && now.After(*sub.NextBillingDate) {
			return false
		}
		return true
	default:
		// expired, canceled, or anything unrecognized
		return false
	}
}

// Features returns the feature set unlocked by the subscription's tier.
func Features(sub *domain.Subscription) []string {
	return domain.FeaturesFor(sub.Tier)
}

// HasFeature reports whether the subscription's tier unlocks the feature.
func HasFeature(sub *domain.Subscription, feature string) bool {
	for _, f := range domain.FeaturesFor(sub.Tier) {
		if f == feature {
			return true
		}
	}
	return false
}

// Limits returns the record caps for the subscription's tier.
func Limits(sub *domain.Subscription) domain.TierLimits {
	return domain.LimitsFor(sub.Tier)
}

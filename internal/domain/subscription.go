package domain

import "time"

// Tier is a named subscription plan determining price and unlocked features.
type Tier string

const (
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// SubscriptionStatus represents the current commercial state of an account.
type SubscriptionStatus string

const (
	StatusTrial    SubscriptionStatus = "trial"
	StatusActive   SubscriptionStatus = "active"
	StatusExpired  SubscriptionStatus = "expired"
	StatusCanceled SubscriptionStatus = "canceled"
)

// BillingCycle is the charge interval for a paid subscription.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Subscription tracks the commercial state of one user. A user owns exactly
// one subscription; the row is keyed by user_id.
type Subscription struct {
	UserID            string             `json:"user_id" db:"user_id"`
	Tier              Tier               `json:"tier" db:"tier"`
	Status            SubscriptionStatus `json:"status" db:"status"`
	TrialStart        time.Time          `json:"trial_start" db:"trial_start"`
	TrialEnd          time.Time          `json:"trial_end" db:"trial_end"`
	BillingCycle      *BillingCycle      `json:"billing_cycle" db:"billing_cycle"`
	AmountCents       int64              `json:"amount_cents" db:"amount_cents"`
	Currency          string             `json:"currency" db:"currency"`
	SubscriptionStart *time.Time         `json:"subscription_start" db:"subscription_start"`
	NextBillingDate   *time.Time         `json:"next_billing_date" db:"next_billing_date"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" db:"updated_at"`
}

// TierPrice holds the fixed price points for one tier, in USD cents.
type TierPrice struct {
	MonthlyCents int64
	AnnualCents  int64
}

// Amount returns the charge amount for the given billing cycle.
func (p TierPrice) Amount(cycle BillingCycle) int64 {
	if cycle == CycleAnnual {
		return p.AnnualCents
	}
	return p.MonthlyCents
}

// TierLimits caps the record volume available to a tier. A zero value means
// unlimited.
type TierLimits struct {
	MaxContacts int
	MaxDeals    int
}

// tierCatalog is the single source of truth for plan pricing, limits and
// unlocked features. Feature decisions must go through the entitlement
// package rather than reading this map directly.
var tierCatalog = map[Tier]struct {
	Price    TierPrice
	Limits   TierLimits
	Features []string
}{
	TierStarter: {
		Price:  TierPrice{MonthlyCents: 7900, AnnualCents: 79000},
		Limits: TierLimits{MaxContacts: 500, MaxDeals: 50},
		Features: []string{
			"contacts", "deals", "pipeline", "email_support",
		},
	},
	TierProfessional: {
		Price:  TierPrice{MonthlyCents: 11900, AnnualCents: 119000},
		Limits: TierLimits{MaxContacts: 5000, MaxDeals: 500},
		Features: []string{
			"contacts", "deals", "pipeline", "email_support",
			"analytics", "deal_scoring", "bulk_import", "priority_support",
		},
	},
	TierEnterprise: {
		Price:  TierPrice{MonthlyCents: 21900, AnnualCents: 219000},
		Limits: TierLimits{},
		Features: []string{
			"contacts", "deals", "pipeline", "email_support",
			"analytics", "deal_scoring", "bulk_import", "priority_support",
			"portfolio", "voice_assistant", "white_label", "dedicated_support",
		},
	},
}

// ValidTier reports whether t is one of the enumerated tiers.
func ValidTier(t Tier) bool {
	_, ok := tierCatalog[t]
	return ok
}

// ValidBillingCycle reports whether c is one of the enumerated cycles.
func ValidBillingCycle(c BillingCycle) bool {
	return c == CycleMonthly || c == CycleAnnual
}

// PriceFor returns the fixed price points for a tier.
func PriceFor(t Tier) (TierPrice, bool) {
	entry, ok := tierCatalog[t]
	return entry.Price, ok
}

// LimitsFor returns the record caps for a tier.
func LimitsFor(t Tier) TierLimits {
	return tierCatalog[t].Limits
}

// FeaturesFor returns the feature set unlocked by a tier.
func FeaturesFor(t Tier) []string {
	return tierCatalog[t].Features
}

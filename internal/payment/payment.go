// Package payment defines the external payment collaborator. The
// entitlement logic never depends on how a charge is executed; it only sees
// the subscription state an accepted charge produces.
package payment

import (
	"context"
	"errors"
	"time"
)

// ErrDeclined is returned when the provider refuses the charge.
var ErrDeclined = errors.New("payment declined")

// ChargeRequest describes a single subscription charge.
type ChargeRequest struct {
	UserID       string `json:"user_id"`
	Tier         string `json:"tier"`
	BillingCycle string `json:"billing_cycle"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Description  string `json:"description"`
}

// Receipt confirms an accepted charge.
type Receipt struct {
	TransactionID string    `json:"transaction_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	ChargedAt     time.Time `json:"charged_at"`
}

// Processor charges subscription payments against an external provider.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

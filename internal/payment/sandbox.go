package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sandbox accepts every charge without contacting a provider. It is the
// processor used in development and tests.
type Sandbox struct{}

// NewSandbox creates a sandbox payment processor
func NewSandbox() *Sandbox {
	return &Sandbox{}
}

var _ Processor = (*Sandbox)(nil)

// Charge accepts the charge and fabricates a receipt
func (s *Sandbox) Charge(_ context.Context, req ChargeRequest) (*Receipt, error) {
	return &Receipt{
		TransactionID: "sandbox-" + uuid.New().String(),
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		ChargedAt:     time.Now(),
	}, nil
}

package service

import (
	"errors"
	"fmt"
	"strings"
)

// Terminal errors for the current attempt. InvalidCredentials deliberately
// covers both unknown email and wrong password so responses cannot be used
// to enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Validation errors, recoverable by correcting input.
var (
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidTier         = errors.New("unknown subscription tier")
	ErrInvalidBillingCycle = errors.New("unknown billing cycle")
)

// ErrPaymentDeclined is returned when the payment collaborator refuses the
// upgrade charge. The subscription row is left untouched.
var ErrPaymentDeclined = errors.New("payment was declined")

// ValidationError reports every rule a field violates, collected together
// rather than failing on the first one.
type ValidationError struct {
	Field      string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, strings.Join(e.Violations, "; "))
}

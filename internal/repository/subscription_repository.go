package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/pkg/database"
)

// subscriptionRepository implements SubscriptionRepository interface
type subscriptionRepository struct {
	db *database.Postgres
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *database.Postgres) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUserID retrieves the subscription owned by a user
func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	query := `
		SELECT user_id, tier, status, trial_start, trial_end, billing_cycle,
		       amount_cents, currency, subscription_start, next_billing_date,
		       created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`

	sub := &domain.Subscription{}
	var billingCycle sql.NullString
	var subscriptionStart, nextBillingDate sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.Tier,
		&sub.Status,
		&sub.TrialStart,
		&sub.TrialEnd,
		&billingCycle,
		&sub.AmountCents,
		&sub.Currency,
		&subscriptionStart,
		&nextBillingDate,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription for user %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if billingCycle.Valid {
		cycle := domain.BillingCycle(billingCycle.String)
		sub.BillingCycle = &cycle
	}
	if subscriptionStart.Valid {
		sub.SubscriptionStart = &subscriptionStart.Time
	}
	if nextBillingDate.Valid {
		sub.NextBillingDate = &nextBillingDate.Time
	}

	return sub, nil
}

// Activate moves the user's subscription to the active status with the given
// paid terms. The whole transition is one UPDATE keyed by user_id, so
// concurrent upgrades cannot interleave partial writes.
func (r *subscriptionRepository) Activate(ctx context.Context, sub *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET tier = $2, status = $3, billing_cycle = $4, amount_cents = $5,
		    currency = $6, subscription_start = $7, next_billing_date = $8,
		    updated_at = $9
		WHERE user_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		sub.UserID,
		sub.Tier,
		domain.StatusActive,
		sub.BillingCycle,
		sub.AmountCents,
		sub.Currency,
		sub.SubscriptionStart,
		sub.NextBillingDate,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subscription for user %s not found: %w", sub.UserID, ErrNotFound)
	}

	return nil
}

// SetStatus updates only the status of the user's subscription
func (r *subscriptionRepository) SetStatus(ctx context.Context, userID string, status domain.SubscriptionStatus) error {
	query := `
		UPDATE subscriptions
		SET status = $2, updated_at = $3
		WHERE user_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set subscription status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subscription for user %s not found: %w", userID, ErrNotFound)
	}

	return nil
}

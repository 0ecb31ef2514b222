package repository

import (
	"context"

	"github.com/nxtrix/account-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	// CreateWithTrial inserts the user and their trial subscription in a
	// single transaction, so a registered user can never exist without a
	// subscription row.
	CreateWithTrial(ctx context.Context, user *domain.User, sub *domain.Subscription) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	SetActive(ctx context.Context, userID string, active bool) error
}

// SessionRepository defines methods for session operations
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

// SubscriptionRepository defines methods for subscription operations.
// Subscriptions are keyed by user_id; a user owns exactly one row.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
	// Activate atomically moves the user's subscription to the active
	// status with the given paid terms.
	Activate(ctx context.Context, sub *domain.Subscription) error
	SetStatus(ctx context.Context, userID string, status domain.SubscriptionStatus) error
}

package service

import (
	"context"

	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/dto"
)

// AuthService defines methods for account and session operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	Authenticate(ctx context.Context, sessionToken string) (*domain.SessionClaims, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// SubscriptionService defines methods for the subscription ledger
type SubscriptionService interface {
	GetCurrent(ctx context.Context, userID string) (*domain.Subscription, error)
	Upgrade(ctx context.Context, userID string, tier domain.Tier, cycle domain.BillingCycle) (*domain.Subscription, error)
	Cancel(ctx context.Context, userID string) error
}

// AccessService is the single choke point consulted before any protected
// feature is shown
type AccessService interface {
	CheckAccess(ctx context.Context, sessionToken string) (*AccessDecision, error)
}

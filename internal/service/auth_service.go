package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/dto"
	"github.com/nxtrix/account-service/internal/entitlement"
	"github.com/nxtrix/account-service/internal/repository"
	"github.com/nxtrix/account-service/internal/utils"
	"go.uber.org/zap"
)

// dummyBcryptHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths both cost one key derivation.
const dummyBcryptHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// authService implements AuthService interface
type authService struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	tokenManager    *utils.SessionTokenManager
	revocationCache RevocationCache
	logger          *zap.Logger
	bcryptCost      int
	trialLength     time.Duration
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokenManager *utils.SessionTokenManager,
	revocationCache RevocationCache,
	logger *zap.Logger,
	bcryptCost int,
	trialLength time.Duration,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		tokenManager:    tokenManager,
		revocationCache: revocationCache,
		logger:          logger,
		bcryptCost:      bcryptCost,
		trialLength:     trialLength,
		now:             time.Now,
	}
}

// Register registers a new user and opens their trial
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	// Normalize before validating: padding and case must not reject an
	// otherwise valid address.
	email := utils.SanitizeEmail(req.Email)

	if !utils.ValidateEmail(email) {
		return nil, &ValidationError{Field: "email", Violations: []string{"must be a valid email address"}}
	}

	if violations := utils.PasswordViolations(req.Password); len(violations) > 0 {
		return nil, &ValidationError{Field: "password", Violations: violations}
	}

	if req.FullName == "" {
		return nil, &ValidationError{Field: "full_name", Violations: []string{"is required"}}
	}

	tier := domain.TierStarter
	if req.Tier != "" {
		tier = domain.Tier(req.Tier)
		if !domain.ValidTier(tier) {
			return nil, fmt.Errorf("tier %q: %w", req.Tier, ErrInvalidTier)
		}
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		IsActive:     true,
	}
	if req.Company != "" {
		user.Company = &req.Company
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	now := s.now()
	sub := &domain.Subscription{
		Tier:       tier,
		Status:     domain.StatusTrial,
		TrialStart: now,
		TrialEnd:   now.Add(s.trialLength),
		Currency:   "USD",
	}

	// The unique index on lowercased email is the authority on duplicates;
	// there is no read-before-write race window here.
	err = s.userRepo.CreateWithTrial(ctx, user, sub)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("email %s: %w", email, ErrEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.openSession(ctx, user, sub)
}

// Login authenticates a user and opens a session
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.CheckPasswordHash(req.Password, dummyBcryptHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// A stale last_login_at must not fail the login
		s.logger.Warn("Failed to update last login",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	return s.openSession(ctx, user, nil)
}

// Logout revokes the session behind the token. Logging out twice, or with a
// token that no longer resolves to a session, is not an error.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	claims, err := s.tokenManager.Validate(sessionToken)
	if err != nil {
		return nil
	}

	err = s.sessionRepo.Revoke(ctx, claims.SessionID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	remaining := time.Until(time.Unix(claims.Exp, 0))
	if remaining > 0 {
		if err := s.revocationCache.Revoke(ctx, hashToken(sessionToken), remaining); err != nil {
			// The persisted revoked flag is the authority; a cache miss
			// only costs a database read
			s.logger.Warn("Failed to cache session revocation",
				zap.String("session_id", claims.SessionID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Authenticate resolves a session token to its claims. Any failure mode maps
// to ErrNotAuthenticated.
func (s *authService) Authenticate(ctx context.Context, sessionToken string) (*domain.SessionClaims, error) {
	tokenHash := hashToken(sessionToken)

	revoked, err := s.revocationCache.IsRevoked(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, ErrNotAuthenticated
	}

	claims, err := s.tokenManager.Validate(sessionToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.TokenHash != tokenHash || !session.IsValid(s.now()) {
		return nil, ErrNotAuthenticated
	}

	return claims, nil
}

// GetUser gets user profile information
func (s *authService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Company:   user.Company,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}

	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.Format(time.RFC3339)
		response.LastLoginAt = &lastLogin
	}

	return response, nil
}

// openSession creates a session row, signs its token, and builds the auth
// response. The trial block is attached only right after registration.
func (s *authService) openSession(ctx context.Context, user *domain.User, sub *domain.Subscription) (*dto.AuthResponse, error) {
	sessionID := uuid.New().String()

	token, err := s.tokenManager.Generate(sessionID, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: hashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenManager.SessionTTL()),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	response := &dto.AuthResponse{
		SessionToken: token,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenManager.SessionTTL().Seconds()),
		User: dto.UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}

	if sub != nil {
		trial := entitlement.EvaluateTrial(sub, now)
		response.Trial = &dto.Trial{
			TrialStart:    sub.TrialStart.Format(time.RFC3339),
			TrialEnd:      sub.TrialEnd.Format(time.RFC3339),
			DaysRemaining: trial.DaysRemaining,
		}
	}

	return response, nil
}

// hashToken hashes a session token for storage and cache keys
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

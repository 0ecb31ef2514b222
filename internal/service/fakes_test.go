package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/payment"
	"github.com/nxtrix/account-service/internal/repository"
)

// In-memory repository fakes for service tests. They enforce the same
// invariants the SQL schema does: unique lowercased email and one
// subscription row per user.

type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*domain.User
	sessions      map[string]*domain.Session
	subscriptions map[string]*domain.Subscription
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*domain.User),
		sessions:      make(map[string]*domain.Session),
		subscriptions: make(map[string]*domain.Subscription),
	}
}

type fakeUserRepo struct {
	store *fakeStore

	failLastLogin bool
}

func (r *fakeUserRepo) CreateWithTrial(_ context.Context, user *domain.User, sub *domain.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, repository.ErrDuplicateEmail)
		}
	}

	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.store.users)+1)
	}
	sub.UserID = user.ID

	userCopy := *user
	subCopy := *sub
	r.store.users[user.ID] = &userCopy
	r.store.subscriptions[user.ID] = &subCopy
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found: %w", email, repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s not found: %w", id, repository.ErrNotFound)
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string) error {
	if r.failLastLogin {
		return fmt.Errorf("update last login: connection reset")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return fmt.Errorf("user with id %s not found: %w", userID, repository.ErrNotFound)
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, userID string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return fmt.Errorf("user with id %s not found: %w", userID, repository.ErrNotFound)
	}
	user.IsActive = active
	return nil
}

type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.sessions[session.ID]; exists {
		return repository.ErrDuplicateSession
	}
	sessionCopy := *session
	r.store.sessions[session.ID] = &sessionCopy
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session with id %s not found: %w", id, repository.ErrNotFound)
	}
	sessionCopy := *session
	return &sessionCopy, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return fmt.Errorf("session with id %s not found: %w", id, repository.ErrNotFound)
	}
	session.Revoked = true
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, session := range r.store.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(r.store.sessions, id)
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func (r *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID string) (*domain.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sub, ok := r.store.subscriptions[userID]
	if !ok {
		return nil, fmt.Errorf("subscription for user %s not found: %w", userID, repository.ErrNotFound)
	}
	subCopy := *sub
	return &subCopy, nil
}

func (r *fakeSubscriptionRepo) Activate(_ context.Context, sub *domain.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.subscriptions[sub.UserID]
	if !ok {
		return fmt.Errorf("subscription for user %s not found: %w", sub.UserID, repository.ErrNotFound)
	}

	existing.Tier = sub.Tier
	existing.Status = domain.StatusActive
	existing.BillingCycle = sub.BillingCycle
	existing.AmountCents = sub.AmountCents
	existing.Currency = sub.Currency
	existing.SubscriptionStart = sub.SubscriptionStart
	existing.NextBillingDate = sub.NextBillingDate
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSubscriptionRepo) SetStatus(_ context.Context, userID string, status domain.SubscriptionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sub, ok := r.store.subscriptions[userID]
	if !ok {
		return fmt.Errorf("subscription for user %s not found: %w", userID, repository.ErrNotFound)
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()
	return nil
}

type fakeRevocationCache struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevocationCache() *fakeRevocationCache {
	return &fakeRevocationCache{revoked: make(map[string]bool)}
}

func (c *fakeRevocationCache) Revoke(_ context.Context, tokenHash string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[tokenHash] = true
	return nil
}

func (c *fakeRevocationCache) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revoked[tokenHash], nil
}

type fakeProcessor struct {
	mu      sync.Mutex
	decline bool
	charges []payment.ChargeRequest
}

func (p *fakeProcessor) Charge(_ context.Context, req payment.ChargeRequest) (*payment.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.decline {
		return nil, payment.ErrDeclined
	}

	p.charges = append(p.charges, req)
	return &payment.Receipt{
		TransactionID: fmt.Sprintf("txn-%d", len(p.charges)),
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		ChargedAt:     time.Now(),
	}, nil
}

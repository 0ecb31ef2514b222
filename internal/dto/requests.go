package dto

// RegisterRequest represents a registration request. Email grammar is
// checked in the service after normalization, not by a binding tag, so
// padded or mixed-case input is not rejected at the HTTP boundary.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Tier     string `json:"tier"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpgradeRequest represents a subscription upgrade request
type UpgradeRequest struct {
	Tier         string `json:"tier" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	SessionToken string   `json:"session_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         UserInfo `json:"user"`
	Trial        *Trial   `json:"trial,omitempty"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Trial describes the trial window granted at registration
type Trial struct {
	TrialStart    string `json:"trial_start"`
	TrialEnd      string `json:"trial_end"`
	DaysRemaining int    `json:"days_remaining"`
}

// UserResponse represents a user profile response
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Company     *string `json:"company"`
	Phone       *string `json:"phone"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastLoginAt *string `json:"last_login_at"`
}

// SubscriptionResponse represents the subscription state of a user
type SubscriptionResponse struct {
	Tier            string  `json:"tier"`
	Status          string  `json:"status"`
	TrialStart      string  `json:"trial_start"`
	TrialEnd        string  `json:"trial_end"`
	BillingCycle    *string `json:"billing_cycle"`
	AmountCents     int64   `json:"amount_cents"`
	Currency        string  `json:"currency"`
	NextBillingDate *string `json:"next_billing_date"`
}

// AccessResponse represents an access gate decision
type AccessResponse struct {
	Allowed            bool   `json:"allowed"`
	Reason             string `json:"reason"`
	TrialDaysRemaining *int   `json:"trial_days_remaining,omitempty"`
}

// FeaturesResponse lists the features unlocked for the current tier
type FeaturesResponse struct {
	Tier        string   `json:"tier"`
	Features    []string `json:"features"`
	MaxContacts int      `json:"max_contacts"`
	MaxDeals    int      `json:"max_deals"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

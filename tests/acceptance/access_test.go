package acceptance

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nxtrix/account-service/internal/dto"
)

func (s *Suite) TestAccess_GrantedDuringTrial() {
	authResp := s.register("access@example.com", "Password123!")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/access", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var access dto.AccessResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&access))
	s.True(access.Allowed)
	s.Equal("granted", access.Reason)
	s.Require().NotNil(access.TrialDaysRemaining)
	s.Equal(7, *access.TrialDaysRemaining)
}

func (s *Suite) TestAccess_DeniedAfterTrialExpiry() {
	authResp := s.register("expired@example.com", "Password123!")

	s.expireTrial("expired@example.com")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/access", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var access dto.AccessResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&access))
	s.False(access.Allowed)
	s.Equal("trial_expired", access.Reason)
	s.Nil(access.TrialDaysRemaining)
}

func (s *Suite) TestAccess_UpgradeRestoresExpiredTrial() {
	authResp := s.register("restored@example.com", "Password123!")

	s.expireTrial("restored@example.com")

	upgrade := dto.UpgradeRequest{Tier: "professional", BillingCycle: "monthly"}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, upgrade)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	accessResp := s.authorizedRequest(http.MethodGet, "/api/v1/access", authResp.SessionToken, nil)
	defer accessResp.Body.Close()

	var access dto.AccessResponse
	s.Require().NoError(json.NewDecoder(accessResp.Body).Decode(&access))
	s.True(access.Allowed)
	s.Equal("granted", access.Reason)
	s.Nil(access.TrialDaysRemaining)
}

func (s *Suite) TestAccess_NotAuthenticated() {
	resp := s.authorizedRequest(http.MethodGet, "/api/v1/access", "garbage-token", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestFeatures_BehindAccessGate() {
	authResp := s.register("features@example.com", "Password123!")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/features", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var features dto.FeaturesResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&features))
	s.Equal("starter", features.Tier)
	s.NotEmpty(features.Features)
	s.Equal(500, features.MaxContacts)
	s.Equal(50, features.MaxDeals)
}

func (s *Suite) TestFeatures_DeniedAfterTrialExpiry() {
	authResp := s.register("gated@example.com", "Password123!")

	s.expireTrial("gated@example.com")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/features", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("trial_expired", errResp.Error)
}

// expireTrial backdates the trial window so the account reads as lapsed
// without waiting out the clock.
func (s *Suite) expireTrial(email string) {
	_, err := s.Postgres.DB.ExecContext(context.Background(), `
		UPDATE subscriptions
		SET trial_start = $1, trial_end = $2
		FROM users
		WHERE subscriptions.user_id = users.id AND users.email = $3`,
		time.Now().Add(-8*24*time.Hour),
		time.Now().Add(-24*time.Hour),
		email,
	)
	s.Require().NoError(err)
}

package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/nxtrix/account-service/internal/dto"
)

func (s *Suite) TestGetSubscription_TrialAfterRegistration() {
	authResp := s.register("trial@example.com", "Password123!")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/subscription", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var sub dto.SubscriptionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&sub))
	s.Equal("starter", sub.Tier)
	s.Equal("trial", sub.Status)
	s.Nil(sub.BillingCycle)
	s.Nil(sub.NextBillingDate)
}

func (s *Suite) TestUpgrade_Professional() {
	authResp := s.register("upgrade@example.com", "Password123!")

	upgradeReq := dto.UpgradeRequest{
		Tier:         "professional",
		BillingCycle: "monthly",
	}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, upgradeReq)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var sub dto.SubscriptionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&sub))
	s.Equal("professional", sub.Tier)
	s.Equal("active", sub.Status)
	s.Equal(int64(11900), sub.AmountCents)
	s.Equal("USD", sub.Currency)
	s.Require().NotNil(sub.BillingCycle)
	s.Equal("monthly", *sub.BillingCycle)
	s.NotNil(sub.NextBillingDate)
}

func (s *Suite) TestUpgrade_AnnualOverwritesMonthly() {
	authResp := s.register("annual@example.com", "Password123!")

	monthly := dto.UpgradeRequest{Tier: "professional", BillingCycle: "monthly"}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, monthly)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	annual := dto.UpgradeRequest{Tier: "enterprise", BillingCycle: "annual"}
	resp = s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, annual)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var sub dto.SubscriptionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&sub))
	s.Equal("enterprise", sub.Tier)
	s.Equal(int64(219000), sub.AmountCents)
	s.Require().NotNil(sub.BillingCycle)
	s.Equal("annual", *sub.BillingCycle)
}

func (s *Suite) TestUpgrade_InvalidTier() {
	authResp := s.register("badtier@example.com", "Password123!")

	upgradeReq := dto.UpgradeRequest{Tier: "platinum", BillingCycle: "monthly"}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, upgradeReq)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid_tier", errResp.Error)
}

func (s *Suite) TestUpgrade_InvalidBillingCycle() {
	authResp := s.register("badcycle@example.com", "Password123!")

	upgradeReq := dto.UpgradeRequest{Tier: "professional", BillingCycle: "weekly"}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, upgradeReq)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid_billing_cycle", errResp.Error)
}

func (s *Suite) TestCancel_DisablesAccess() {
	authResp := s.register("cancel@example.com", "Password123!")

	upgrade := dto.UpgradeRequest{Tier: "professional", BillingCycle: "monthly"}
	resp := s.authorizedRequest(http.MethodPost, "/api/v1/subscription/upgrade", authResp.SessionToken, upgrade)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.authorizedRequest(http.MethodPost, "/api/v1/subscription/cancel", authResp.SessionToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	accessResp := s.authorizedRequest(http.MethodGet, "/api/v1/access", authResp.SessionToken, nil)
	defer accessResp.Body.Close()

	var access dto.AccessResponse
	s.Require().NoError(json.NewDecoder(accessResp.Body).Decode(&access))
	s.False(access.Allowed)
	s.Equal("subscription_inactive", access.Reason)
}

func (s *Suite) TestSubscription_RequiresSession() {
	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/subscription", nil)
	s.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

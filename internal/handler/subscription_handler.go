package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nxtrix/account-service/internal/domain"
	"github.com/nxtrix/account-service/internal/dto"
	"github.com/nxtrix/account-service/internal/entitlement"
	"github.com/nxtrix/account-service/internal/service"
)

// SubscriptionHandler handles subscription ledger requests
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	accessService       service.AccessService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, accessService service.AccessService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		accessService:       accessService,
	}
}

// GetSubscription returns the current subscription state. Reachable with an
// expired trial so the upgrade flow can show what lapsed.
// @Summary Get current subscription
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID := c.GetString("user_id")

	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		storageUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptionResponse(sub))
}

// Upgrade moves the account onto a paid tier
// @Summary Upgrade subscription
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpgradeRequest true "Upgrade request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Router /subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	var req dto.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	userID := c.GetString("user_id")

	sub, err := h.subscriptionService.Upgrade(
		c.Request.Context(),
		userID,
		domain.Tier(req.Tier),
		domain.BillingCycle(req.BillingCycle),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTier):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_tier",
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrInvalidBillingCycle):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_billing_cycle",
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrPaymentDeclined):
			c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{
				Error:   "payment_declined",
				Message: err.Error(),
			})
		default:
			storageUnavailable(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, subscriptionResponse(sub))
}

// Cancel ends the paid subscription
// @Summary Cancel subscription
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /subscription/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.subscriptionService.Cancel(c.Request.Context(), userID); err != nil {
		storageUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Subscription canceled",
	})
}

// CheckAccess returns the access gate decision document
// @Summary Check access
// @Tags access
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccessResponse
// @Router /access [get]
func (h *SubscriptionHandler) CheckAccess(c *gin.Context) {
	decision, err := h.accessService.CheckAccess(c.Request.Context(), BearerToken(c))
	if err != nil {
		storageUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{
		Allowed:            decision.Allowed,
		Reason:             string(decision.Reason),
		TrialDaysRemaining: decision.TrialDaysRemaining,
	})
}

// Features lists the features unlocked for the current tier. The route sits
// behind the access gate, so an expired trial never reaches it.
// @Summary List unlocked features
// @Tags access
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FeaturesResponse
// @Router /features [get]
func (h *SubscriptionHandler) Features(c *gin.Context) {
	userID := c.GetString("user_id")

	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		storageUnavailable(c, err)
		return
	}

	limits := entitlement.Limits(sub)
	c.JSON(http.StatusOK, dto.FeaturesResponse{
		Tier:        string(sub.Tier),
		Features:    entitlement.Features(sub),
		MaxContacts: limits.MaxContacts,
		MaxDeals:    limits.MaxDeals,
	})
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		Tier:        string(sub.Tier),
		Status:      string(sub.Status),
		TrialStart:  sub.TrialStart.Format(time.RFC3339),
		TrialEnd:    sub.TrialEnd.Format(time.RFC3339),
		AmountCents: sub.AmountCents,
		Currency:    sub.Currency,
	}

	if sub.BillingCycle != nil {
		cycle := string(*sub.BillingCycle)
		resp.BillingCycle = &cycle
	}
	if sub.NextBillingDate != nil {
		next := sub.NextBillingDate.Format(time.RFC3339)
		resp.NextBillingDate = &next
	}

	return resp
}

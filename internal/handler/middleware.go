package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nxtrix/account-service/internal/dto"
	"github.com/nxtrix/account-service/internal/service"
)

// BearerToken extracts the session token from the Authorization header.
// Returns an empty string when the header is missing or malformed.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware validates the session token and adds user info to context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "not_authenticated",
				Message: "Authorization header with a Bearer token is required",
			})
			c.Abort()
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			// A backend outage is not an invalid session; only a real
			// authentication failure may claim the token is bad.
			if errors.Is(err, service.ErrNotAuthenticated) {
				c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
					Error:   "not_authenticated",
					Message: "Invalid or expired session",
				})
			} else {
				storageUnavailable(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

// AccessGateMiddleware runs the full access gate before a protected feature
// is served. Entitlement denials are 403 responses carrying the reason code,
// so the client can route to the upgrade flow.
func AccessGateMiddleware(accessService service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := accessService.CheckAccess(c.Request.Context(), BearerToken(c))
		if err != nil {
			storageUnavailable(c, err)
			c.Abort()
			return
		}

		if !decision.Allowed {
			status := http.StatusForbidden
			if decision.Reason == service.ReasonNotAuthenticated {
				status = http.StatusUnauthorized
			}
			c.JSON(status, dto.ErrorResponse{
				Error:   string(decision.Reason),
				Message: "Access denied",
			})
			c.Abort()
			return
		}

		c.Set("user_id", decision.UserID)
		c.Set("tier", decision.Tier)
		if decision.TrialDaysRemaining != nil {
			c.Set("trial_days_remaining", *decision.TrialDaysRemaining)
		}

		c.Next()
	}
}

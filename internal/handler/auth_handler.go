package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nxtrix/account-service/internal/dto"
	"github.com/nxtrix/account-service/internal/service"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new account
// @Description Register a new account and open its trial
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_failed",
				Message: validationErr.Error(),
				Details: gin.H{validationErr.Field: validationErr.Violations},
			})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "email_taken",
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrInvalidTier):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_tier",
				Message: err.Error(),
			})
		default:
			storageUnavailable(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "invalid_credentials",
				Message: service.ErrInvalidCredentials.Error(),
			})
		case errors.Is(err, service.ErrAccountDeactivated):
			c.JSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "account_deactivated",
				Message: err.Error(),
			})
		default:
			storageUnavailable(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles user logout
// @Summary Logout
// @Description Revoke the current session; repeating the call is a no-op
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := BearerToken(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		storageUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// GetMe handles getting the current user profile
// @Summary Get current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "not_authenticated",
			Message: "User ID not found in context",
		})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		storageUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// storageUnavailable reports an unexpected backend failure. The caller is
// expected to retry at the UI layer.
func storageUnavailable(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
		Error:   "storage_unavailable",
		Message: err.Error(),
	})
}

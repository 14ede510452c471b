package handler

import (
	"context"  // context with timeout for service calls
	"errors"   // sentinel matching for status mapping
	"log/slog" // structured logging of infrastructure failures
	"net/http" // HTTP status codes
	"strings"  // input normalization
	"time"     // timeouts

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/account-recovery/internal/repository"
	"github.com/iliyamo/account-recovery/internal/service"
	"github.com/iliyamo/account-recovery/internal/utils"
)

// resetAckMessage is returned by the reset-request endpoint for known
// and unknown emails alike; the response never reveals whether an
// account exists.
const resetAckMessage = "If that email address is in our system, we have sent a password reset code."

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth     *service.AuthService
	Recovery *service.RecoveryService
}

func NewAuthHandler(a *service.AuthService, r *service.RecoveryService) *AuthHandler {
	return &AuthHandler{Auth: a, Recovery: r}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}
type verifyResetReq struct {
	ResetCode   string `json:"reset_code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpassword"`
}

// Register: create user and return its public fields only.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// Login: verify the pair and return a signed session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, err := h.Auth.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// RequestPasswordReset: issue and email a reset code. The response is
// the same fixed acknowledgement whether or not the email is known.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Mail dispatch can be slower than a DB round trip.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.Recovery.RequestReset(ctx, strings.TrimSpace(req.Email)); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": resetAckMessage})
}

// VerifyResetCode: consume a valid code and replace the password.
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req verifyResetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Recovery.VerifyResetAndSetPassword(ctx, req.ResetCode, req.NewPassword); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset successfully."})
}

// Protected: simple endpoint behind the JWT middleware.
func (h *AuthHandler) Protected(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "protected route accessed",
		"user_id": c.Get("user_id"),
		"email":   c.Get("email"),
	})
}

// errorResponse maps domain errors to their fixed statuses and hides
// everything else behind a generic 500. The underlying cause of an
// infrastructure failure is logged, never sent to the client.
func (h *AuthHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrInvalidResetCode):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidResetCode.Error()})
	case errors.Is(err, service.ErrResetCodeExpired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrResetCodeExpired.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrEmailExists.Error()})
	case errors.Is(err, utils.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": utils.ErrWeakPassword.Error()})
	default:
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moklab/auth-service/internal/api/metrics"
	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
}

type signupResponse struct {
	User *domain.User `json:"user"`
}

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signinResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		switch err {
		case domain.ErrUsernameTaken:
			status, result = http.StatusConflict, "duplicate_username"
		case domain.ErrEmailTaken:
			status, result = http.StatusConflict, "duplicate_email"
		case domain.ErrInvalidCredentials:
			status, result = http.StatusBadRequest, "invalid"
		}
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, signupResponse{User: user})
}

// Signin verifies credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  signinResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		result := "invalid_credentials"
		switch err {
		case domain.ErrUserDisabled:
			result = "disabled"
		case domain.ErrTooManyAttempts:
			status, result = http.StatusTooManyRequests, "throttled"
		case domain.ErrInvalidCredentials:
		default:
			status, result = http.StatusInternalServerError, "error"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		// Disabled accounts and bad passwords read the same to the client.
		msg := "invalid credentials"
		switch status {
		case http.StatusTooManyRequests:
			msg = err.Error()
		case http.StatusInternalServerError:
			msg = "internal server error"
		}
		return c.JSON(status, map[string]string{"error": msg})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, signinResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
	})
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tegha-romeo/auth-api/internal/api/metrics"
	"github.com/tegha-romeo/auth-api/internal/core/domain"
	"github.com/tegha-romeo/auth-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Firstname string `json:"firstname" validate:"required,min=2,max=50" example:"Ann"`
	Lastname  string `json:"lastname" validate:"required,min=2,max=50" example:"Lee"`
	Email     string `json:"email" validate:"required,email" example:"ann@x.com"`
	Password  string `json:"password" validate:"required,min=6" example:"secret1"`
}

type loginRequest struct {
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"secret1"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a User-role account and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(resultOf(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.LoginDuration.Observe(time.Since(start).Seconds()) }()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(resultOf(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return metrics.ResultDuplicate
	case errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.ResultInvalidCredentials
	case errors.Is(err, domain.ErrStoreUnavailable):
		return metrics.ResultStoreError
	default:
		return metrics.ResultError
	}
}

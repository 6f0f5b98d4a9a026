package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// ProtectedHandler serves the routes mounted behind the Authenticate middleware.
type ProtectedHandler struct{}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

type profileResponse struct {
	ID        int64       `json:"id" example:"1"`
	Firstname string      `json:"firstname" example:"Ann"`
	Lastname  string      `json:"lastname" example:"Lee"`
	Email     string      `json:"email" example:"ann@x.com"`
	Role      domain.Role `json:"role" swaggertype:"string" example:"User"`
}

type welcomeUser struct {
	Firstname string      `json:"firstname"`
	Lastname  string      `json:"lastname"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role" swaggertype:"string"`
}

type welcomeResponse struct {
	Message string      `json:"message"`
	User    welcomeUser `json:"user"`
}

// Profile returns the caller's own account.
//
// @Summary      Current user profile
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /api/profile [get]
func (h *ProtectedHandler) Profile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Email:     user.Email,
		Role:      user.Role,
	})
}

// Admin is the administrator landing route.
//
// @Summary      Admin route
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  welcomeResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /api/admin [get]
func (h *ProtectedHandler) Admin(c echo.Context) error {
	return welcome(c, "Welcome to admin route")
}

// User is the regular user landing route.
//
// @Summary      User route
// @Tags         protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  welcomeResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/user [get]
func (h *ProtectedHandler) User(c echo.Context) error {
	return welcome(c, "Welcome to user route")
}

func welcome(c echo.Context, message string) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, welcomeResponse{
		Message: message,
		User: welcomeUser{
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
			Email:     user.Email,
			Role:      user.Role,
		},
	})
}

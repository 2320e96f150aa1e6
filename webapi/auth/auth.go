// Package auth exposes the login endpoint.
package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/webapi/common"
)

// Service is the authentication surface the handlers need.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GenerateToken(u *domain.User) (string, error)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Routes registers the auth endpoints.
func Routes(app *fiber.App, authSvc Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login authenticates a user and returns a JWT.
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid email or password",
				"Email or password is incorrect", fiber.StatusUnauthorized)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}

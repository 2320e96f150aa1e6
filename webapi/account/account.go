// Package account exposes the destination-account endpoints.
package account

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/middleware"
	"github.com/ognlabs/token-transfer/webapi/common"
)

// Service is the account surface the handlers need.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	Create(ctx context.Context, userID uuid.UUID, nickname, address, requestIP string) (*domain.Account, error)
	Delete(ctx context.Context, userID, accountID uuid.UUID) error
}

// AuthService resolves the authenticated user from a verified JWT.
type AuthService interface {
	GetCurrentUserID(token *jwt.Token) (uuid.UUID, error)
}

// CreateAccountRequest is the account creation payload. Field-level
// validation is done by the service so empty or duplicate values come back
// as 422 field errors, not a 400.
type CreateAccountRequest struct {
	Nickname string `json:"nickname"`
	Address  string `json:"address"`
}

// Routes registers the account endpoints. All of them require a valid JWT.
func Routes(app *fiber.App, accountSvc Service, authSvc AuthService, cfg *config.App) {
	app.Get("/api/accounts", middleware.JwtProtected(cfg.Jwt), ListAccounts(accountSvc, authSvc))
	app.Post("/api/accounts", middleware.JwtProtected(cfg.Jwt), CreateAccount(accountSvc, authSvc))
	app.Delete("/api/accounts/:id", middleware.JwtProtected(cfg.Jwt), DeleteAccount(accountSvc, authSvc))
}

// CurrentUserID extracts the authenticated user ID from the request, or
// writes the error response and returns false.
func CurrentUserID(c *fiber.Ctx, authSvc AuthService) (uuid.UUID, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		_ = common.ProblemDetailsJSON(c, "Unauthorized", "missing user context", fiber.StatusUnauthorized)
		return uuid.Nil, false
	}
	userID, err := authSvc.GetCurrentUserID(token)
	if err != nil {
		_ = common.ProblemDetailsJSON(c, "Unauthorized", "invalid user ID in token", fiber.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// ListAccounts returns the caller's saved accounts in creation order.
// @Summary List destination accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} domain.Account
// @Failure 401 {object} common.ProblemDetails
// @Router /api/accounts [get]
// @Security Bearer
func ListAccounts(accountSvc Service, authSvc AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c, authSvc)
		if !ok {
			return nil
		}
		accounts, err := accountSvc.List(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if accounts == nil {
			accounts = []domain.Account{}
		}
		return c.Status(fiber.StatusOK).JSON(accounts)
	}
}

// CreateAccount saves a new destination account for the caller.
// @Summary Add a destination account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} domain.Account
// @Failure 401 {object} common.ProblemDetails
// @Failure 422 {object} map[string]any "errors keyed by param/msg"
// @Router /api/accounts [post]
// @Security Bearer
func CreateAccount(accountSvc Service, authSvc AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Create(c.Context(), userID, input.Nickname, input.Address, common.ClientIP(c))
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// DeleteAccount removes one of the caller's accounts.
// @Summary Delete a destination account
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(accountSvc Service, authSvc AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c, authSvc)
		if !ok {
			return nil
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Not Found", "invalid account id", fiber.StatusNotFound)
		}
		if err := accountSvc.Delete(c.Context(), userID, accountID); err != nil {
			return common.ErrorJSON(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Package transfer exposes the withdrawal submission and confirmation
// endpoints.
package transfer

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/eth"
	"github.com/ognlabs/token-transfer/pkg/middleware"
	"github.com/ognlabs/token-transfer/webapi/account"
	"github.com/ognlabs/token-transfer/webapi/common"
	"github.com/shopspring/decimal"
)

// Service is the transfer surface the handlers need.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.TransferRequest, error)
	Submit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address, code string) (*domain.TransferRequest, error)
	Confirm(ctx context.Context, token string) (*domain.TransferRequest, error)
}

// SubmitTransferRequest is the withdrawal submission payload. The amount
// travels as a string so the client never round-trips it through floats.
type SubmitTransferRequest struct {
	Amount  string `json:"amount"`
	Address string `json:"address"`
	Code    string `json:"code"`
}

// Routes registers the transfer endpoints. The confirmation route is the
// email-link target and is deliberately unauthenticated: the token is the
// credential.
func Routes(app *fiber.App, transferSvc Service, authSvc account.AuthService, cfg *config.App) {
	app.Get("/api/transfers", middleware.JwtProtected(cfg.Jwt), ListTransfers(transferSvc, authSvc))
	app.Post("/api/transfers", middleware.JwtProtected(cfg.Jwt), SubmitTransfer(transferSvc, authSvc))
	app.Get("/transfers/confirm/:token", ConfirmTransfer(transferSvc))
}

// ListTransfers returns the caller's withdrawal requests.
// @Summary List withdrawal requests
// @Tags transfers
// @Produce json
// @Success 200 {array} domain.TransferRequest
// @Failure 401 {object} common.ProblemDetails
// @Router /api/transfers [get]
// @Security Bearer
func ListTransfers(transferSvc Service, authSvc account.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := account.CurrentUserID(c, authSvc)
		if !ok {
			return nil
		}
		transfers, err := transferSvc.List(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if transfers == nil {
			transfers = []domain.TransferRequest{}
		}
		return c.Status(fiber.StatusOK).JSON(transfers)
	}
}

// SubmitTransfer submits a withdrawal gated on the second-factor code. A 201
// is the machine-readable "transfer added" result; the user then has five
// minutes to confirm via the emailed link.
// @Summary Submit a withdrawal request
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body SubmitTransferRequest true "Withdrawal details"
// @Success 201 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 422 {object} map[string]any "errors keyed by param/msg"
// @Router /api/transfers [post]
// @Security Bearer
func SubmitTransfer(transferSvc Service, authSvc account.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := account.CurrentUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[SubmitTransferRequest](c)
		if input == nil {
			return err
		}
		amount, err := eth.ParseAmount(input.Amount)
		if err != nil {
			return common.ValidationErrorsJSON(c, domain.ValidationErrors{
				{Field: "amount", Message: "Amount must be a positive number"},
			})
		}
		t, err := transferSvc.Submit(c.Context(), userID, amount, input.Address, input.Code)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer added", t)
	}
}

// ConfirmTransfer is the email-link target that finalizes a withdrawal.
// @Summary Confirm a withdrawal via emailed token
// @Tags transfers
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} common.Response
// @Failure 410 {object} common.ProblemDetails "Token expired"
// @Failure 404 {object} common.ProblemDetails "Token invalid"
// @Router /transfers/confirm/{token} [get]
func ConfirmTransfer(transferSvc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := transferSvc.Confirm(c.Context(), c.Params("token"))
		switch {
		case err == nil:
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer confirmed", t)
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			return common.ProblemDetailsJSON(c, "Already Confirmed",
				"This transfer has already been confirmed.", fiber.StatusConflict)
		case errors.Is(err, domain.ErrTokenExpired):
			return common.ProblemDetailsJSON(c, "Token Expired",
				"The confirmation window has closed. Please submit the withdrawal again.", fiber.StatusGone)
		case errors.Is(err, domain.ErrTokenInvalid):
			return common.ProblemDetailsJSON(c, "Token Invalid",
				"This confirmation link is not valid.", fiber.StatusNotFound)
		default:
			return common.ErrorJSON(c, err)
		}
	}
}

// Package common holds the response helpers shared by the API handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/ognlabs/token-transfer/pkg/domain"
)

// Response is the standard success envelope.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs. Field-level
// validation failures do not use this shape; see ValidationErrorsJSON.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes a problem-details response. status defaults to
// 500 when not given.
func ProblemDetailsJSON(c *fiber.Ctx, title string, detail string, status ...int) error {
	code := fiber.StatusInternalServerError
	if len(status) > 0 {
		code = status[0]
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(code).JSON(ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   code,
		Detail:   detail,
		Instance: c.OriginalURL(),
	})
}

// ValidationErrorsJSON writes the 422 payload the client form maps onto its
// fields: {"errors":[{"param":"nickname","msg":"..."}]}.
func ValidationErrorsJSON(c *fiber.Ctx, verrs domain.ValidationErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": verrs})
}

// ErrorJSON maps an error onto the right response shape: validation errors
// become the 422 payload, known business rejections become problem details,
// anything else is a 500.
func ErrorJSON(c *fiber.Ctx, err error) error {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationErrorsJSON(c, verrs)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ProblemDetailsJSON(c, "Not Found", err.Error(), fiber.StatusNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		return ProblemDetailsJSON(c, "Unauthorized", err.Error(), fiber.StatusUnauthorized)
	default:
		return ProblemDetailsJSON(c, "Internal Server Error", err.Error())
	}
}

// BindAndValidate parses the request body and validates it with
// go-playground/validator. On failure an error response has already been
// written and nil is returned.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err.Error(), fiber.StatusBadRequest)
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized is returned when credentials or tokens do not check out.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAmountExceedsBalance is returned when a withdrawal amount is greater
	// than the user's available balance at the time of the check.
	ErrAmountExceedsBalance = errors.New("amount exceeds available balance")
	// ErrAmountInvalid is returned when an amount is not a positive decimal.
	ErrAmountInvalid = errors.New("amount must be a positive number")
	// ErrAddressMalformed is returned when a destination address does not
	// satisfy the Ethereum address grammar.
	ErrAddressMalformed = errors.New("not a valid Ethereum address")
	// ErrInvalidSecondFactorCode is returned when a TOTP code does not match
	// the user's registered secret.
	ErrInvalidSecondFactorCode = errors.New("invalid second factor code")

	// ErrTokenInvalid is returned when a confirmation token matches no
	// pending transfer.
	ErrTokenInvalid = errors.New("confirmation token is invalid")
	// ErrTokenExpired is returned when a confirmation token is presented
	// after its expiry window.
	ErrTokenExpired = errors.New("confirmation token has expired")
	// ErrAlreadyConfirmed is returned when a transfer has already been
	// confirmed; the transfer is not broadcast a second time.
	ErrAlreadyConfirmed = errors.New("transfer already confirmed")
)

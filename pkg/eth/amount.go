package eth

import (
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied token amount. Empty strings,
// non-numeric input, and non-positive values fail with ErrAmountInvalid.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, domain.ErrAmountInvalid
	}
	return amount, nil
}

// ValidateAmount checks that amount is strictly positive and does not exceed
// the given balance snapshot.
func ValidateAmount(amount, balance decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrAmountInvalid
	}
	if amount.GreaterThan(balance) {
		return domain.ErrAmountExceedsBalance
	}
	return nil
}

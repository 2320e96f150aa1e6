package eth

import (
	"testing"

	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"checksummed 2", "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", false},
		{"checksummed 3", "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB", false},
		{"all lowercase", "0xde709f2102306220921060314715629080e2fb77", false},
		{"all uppercase", "0x52908400098527886E0F7030069857D2E4169EE7", false},
		{"bad checksum", "0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"missing prefix", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"too short", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe", true},
		{"not hex", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAzz", true},
		{"garbage", "not-an-address", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrAddressMalformed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	balance := decimal.NewFromInt(500)

	assert.NoError(t, ValidateAmount(decimal.NewFromInt(100), balance))
	assert.NoError(t, ValidateAmount(balance, balance))
	assert.ErrorIs(t, ValidateAmount(decimal.NewFromInt(600), balance), domain.ErrAmountExceedsBalance)
	assert.ErrorIs(t, ValidateAmount(decimal.Zero, balance), domain.ErrAmountInvalid)
	assert.ErrorIs(t, ValidateAmount(decimal.NewFromInt(-1), balance), domain.ErrAmountInvalid)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("100.5")
	assert.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromFloat(100.5)))

	_, err = ParseAmount("")
	assert.ErrorIs(t, err, domain.ErrAmountInvalid)

	_, err = ParseAmount("1e")
	assert.ErrorIs(t, err, domain.ErrAmountInvalid)

	_, err = ParseAmount("0")
	assert.ErrorIs(t, err, domain.ErrAmountInvalid)

	_, err = ParseAmount("-5")
	assert.ErrorIs(t, err, domain.ErrAmountInvalid)
}

package transfer

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPVerifier(t *testing.T) {
	code, err := totp.GenerateCode(totpSecret, time.Now())
	require.NoError(t, err)

	assert.True(t, TOTPVerifier{}.Verify(code, totpSecret))

	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	wrong := fmt.Sprintf("%06d", (n+1)%1000000)
	assert.False(t, TOTPVerifier{}.Verify(wrong, totpSecret))
}

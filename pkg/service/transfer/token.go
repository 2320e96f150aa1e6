package transfer

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// newConfirmationToken generates a single-use confirmation token. The raw
// token goes into the email link only; the server stores the hash.
func newConfirmationToken() (token, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

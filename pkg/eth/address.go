// Package eth holds the syntactic validators for withdrawal input: Ethereum
// address well-formedness (including the EIP-55 mixed-case checksum) and
// amount sanity checks against a balance snapshot. Everything here is pure;
// no network calls.
package eth

import (
	"encoding/hex"
	"strings"

	"github.com/ognlabs/token-transfer/pkg/domain"
	"golang.org/x/crypto/sha3"
)

// ValidateAddress checks that addr is a well-formed Ethereum address: the 0x
// prefix followed by 40 hex characters. Addresses written in a single case
// carry no checksum and pass on the grammar alone; mixed-case addresses must
// additionally satisfy the EIP-55 checksum.
func ValidateAddress(addr string) error {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return domain.ErrAddressMalformed
	}
	hexPart := addr[2:]
	if _, err := hex.DecodeString(hexPart); err != nil {
		return domain.ErrAddressMalformed
	}
	lower := strings.ToLower(hexPart)
	if hexPart == lower || hexPart == strings.ToUpper(hexPart) {
		return nil
	}
	if checksumAddress(lower) != hexPart {
		return domain.ErrAddressMalformed
	}
	return nil
}

// checksumAddress applies the EIP-55 rule: uppercase every hex letter whose
// corresponding nibble of keccak256(lowercase address) is >= 8.
func checksumAddress(lower string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

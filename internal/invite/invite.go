// Package invite generates human-typable invite codes for spaces.
package invite

import (
	"crypto/rand"
	"math/big"
)

// alphabet excludes characters that are easy to misread (O/0, I/1).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of generated invite codes.
const CodeLength = 6

// NewCode returns a random invite code. Uniqueness against existing spaces
// is the caller's responsibility; with 32^6 possibilities collisions are
// rare enough that a retry loop suffices.
func NewCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsValid reports whether s has the shape of an invite code.
func IsValid(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if s[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

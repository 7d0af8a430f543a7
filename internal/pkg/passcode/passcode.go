// Package passcode implements the reversible password encoding used at rest.
// It is an encoding, not a hash: the directory predates this service and its
// consumers expect to read back the base64 form.
package passcode

import (
	"crypto/subtle"
	"encoding/base64"
)

// Encode returns the at-rest representation of a plaintext password.
func Encode(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// Matches reports whether the plaintext password corresponds to the stored
// encoded value. Comparison is constant-time and case-sensitive.
func Matches(plain, encoded string) bool {
	return subtle.ConstantTimeCompare([]byte(Encode(plain)), []byte(encoded)) == 1
}

package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	shortSegmentBytes = 10
	longSegmentBytes  = 32
)

// Issue generates a bearer token for the given identity id:
// "<id>.<10 random bytes hex>.<32 random bytes hex>". The id segment is
// informational only; callers must always re-fetch the identity by id and
// compare the full token string, never trust the embedded id.
func Issue(identityID string) (string, error) {
	short, err := randomHex(shortSegmentBytes)
	if err != nil {
		return "", fmt.Errorf("token: failed to generate entropy: %w", err)
	}
	long, err := randomHex(longSegmentBytes)
	if err != nil {
		return "", fmt.Errorf("token: failed to generate entropy: %w", err)
	}
	return identityID + "." + short + "." + long, nil
}

// Match reports whether a presented token equals the stored one. Exact
// byte comparison, constant time for equal lengths.
func Match(presented, stored string) bool {
	if len(presented) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package trace

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the sha256 (hex) of the graph's JSON form. Two passes over
// the same input produce the same fingerprint, so it doubles as a cheap
// "did anything change" check for recomputation.
func Fingerprint(vs *Values) (string, error) {
	b, err := vs.MarshalJSON()
	if err != nil {
		return "", err
	}
	return hashBytes(b), nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Package crypto fingerprints serialized town snapshots.
package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length of a raw snapshot digest in bytes.
const DigestSize = blake2b.Size256

// Digest returns the hex BLAKE2b-256 of body.
func Digest(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}

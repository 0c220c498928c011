// Package id generates the opaque identifiers stored in the request_id and
// record_id columns.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns 32 lowercase hex characters, 128 bits of randomness and
// nothing else: no prefix, no separators, safe for a char(32) column.
func NewID32() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

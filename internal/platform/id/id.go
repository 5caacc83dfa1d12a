// Package id generates compact, URL-safe identifiers.
//
// An identifier is a UUIDv4 encoded as lowercase unpadded base32, which
// yields a fixed 26-character string safe for URLs, file names, and SQL
// keys without escaping.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new 26-character identifier.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}

// Package digest fingerprints a grid's visual state.
//
// The fingerprint hashes the concatenated #rrggbb color strings of every
// cell in row-major order, with no separator. It is an equality and
// tamper check between snapshots, not a security primitive.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bclonan/sight/internal/grid"
)

// Algorithm selects the 256-bit hash behind a fingerprint.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm resolves a name; the empty string means SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(name)) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	}
	return "", fmt.Errorf("digest: unknown algorithm: %s", name)
}

func (a Algorithm) new() hash.Hash {
	if a == BLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// Fingerprint is Sum with SHA256.
func Fingerprint(g *grid.Grid) string {
	return Sum(g, SHA256)
}

// Sum returns the 64-character lowercase hex digest of g's colors.
func Sum(g *grid.Grid, algo Algorithm) string {
	h := algo.new()
	for _, c := range g.Colors() {
		h.Write([]byte(c.Hex())) // hash.Hash writes never fail
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Equal reports whether two grids have the same fingerprint.
func Equal(a, b *grid.Grid) bool {
	return Fingerprint(a) == Fingerprint(b)
}

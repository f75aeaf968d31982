package showcase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const portfolioIDPrefix = "pf_"

// NewPortfolioID generates a unique portfolio identifier.
// 12 random bytes rendered as hex keep the probability of a collision
// negligible even under concurrent creation.
func NewPortfolioID() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return portfolioIDPrefix + hex.EncodeToString(randomBytes), nil
}

// IsPortfolioID reports whether s has the shape of a generated portfolio id.
func IsPortfolioID(s string) bool {
	if !strings.HasPrefix(s, portfolioIDPrefix) {
		return false
	}
	rest := strings.TrimPrefix(s, portfolioIDPrefix)
	if len(rest) != 24 {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil
}

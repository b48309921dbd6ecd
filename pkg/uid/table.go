package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateTableID returns a random 128-bit hex identifier for a table
func GenerateTableID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate table ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

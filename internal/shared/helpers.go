// Package shared provides common utility functions used across multiple
// packages in the upgrade-guard codebase.
package shared

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizePipName lowercases a Python package name and replaces
// underscores and dots with hyphens, following PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// ShortHash returns the first 12 hex characters of the SHA-256 digest of
// the given content, used for checkpoint and contract identifiers.
func ShortHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:12]
}

// ContentHash returns the full SHA-256 hex digest of the given content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// package repositories provides persistence layer implementations for local client state.
package repositories

import (
	"strings"
)

// TokenKey is the settings key holding the auth token.
const TokenKey string = "wandrix_token"

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

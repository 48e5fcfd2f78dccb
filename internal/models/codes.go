package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewCode generates a short human-readable identifier such as ENR-3F2A81C4.
// The random UUID fragment keeps codes unique under rapid successive calls.
func NewCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

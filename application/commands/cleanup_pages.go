package commands

import (
	"time"

	pkgerrors "wikiracer/pkg/errors"
)

// CleanupExpiredPagesCommand purges page records older than the configured
// TTL. The store is append-only unless this explicit eviction policy is
// enabled.
type CleanupExpiredPagesCommand struct {
	// OlderThan overrides the configured TTL when positive
	OlderThan time.Duration `json:"older_than,omitempty"`
}

// Validate implements the bus.Command interface
func (c CleanupExpiredPagesCommand) Validate() error {
	if c.OlderThan < 0 {
		return pkgerrors.NewValidationError("older_than cannot be negative")
	}
	return nil
}

package checkpoint

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: checkpoint may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrTruncated          = errors.New("checkpoint is truncated")
	ErrDuplicateName      = errors.New("duplicate variable name")
	ErrMissingVariable    = errors.New("variable not in checkpoint")
	ErrNotFound           = errors.New("checkpoint not found")
)

// ValidationError describes a malformed variable table.
type ValidationError struct {
	Type     string // e.g. "offset_overlap", "out_of_bounds"
	Variable string
	Other    string // second variable for overlap errors
	Details  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("%s: variables %q and %q: %s", e.Type, e.Variable, e.Other, e.Details)
	}
	if e.Variable != "" {
		return fmt.Sprintf("%s: variable %q: %s", e.Type, e.Variable, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

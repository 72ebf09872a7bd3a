package cssremap

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal, document-level failure classes.
// Fatal failures short-circuit before any transformation happens: the
// caller always gets the original content back alongside one of these.
var (
	// ErrInvalidRoot indicates the Root option does not name an existing directory
	ErrInvalidRoot = errors.New("invalid root directory")

	// ErrInvalidEngine indicates an unrecognized CSS engine name
	ErrInvalidEngine = errors.New("invalid css engine")

	// ErrJoinConflict indicates a custom join strategy combined with the
	// deprecated attempts option
	ErrJoinConflict = errors.New("conflicting join configuration")

	// ErrMissingFrom indicates no path was given for the file being processed
	ErrMissingFrom = errors.New("missing from path")
)

// InvalidRootError reports a Root option that could not be validated
type InvalidRootError struct {
	Root   string
	Reason string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("root option %q is not an existing directory: %s", e.Root, e.Reason)
}

func (e *InvalidRootError) Unwrap() error {
	return ErrInvalidRoot
}

// NewInvalidRootError creates a new invalid root error
func NewInvalidRootError(root, reason string) error {
	return &InvalidRootError{
		Root:   root,
		Reason: reason,
	}
}

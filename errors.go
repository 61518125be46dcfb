package apilevel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/apilevel/internal/kb"
)

var (
	// ErrNoDatabase is returned by Open when neither a knowledge base nor a
	// fallback model could be made available.
	ErrNoDatabase = errors.New("apilevel: no database available")

	// ErrClosed is returned when closing a DB or Registry twice.
	ErrClosed = errors.New("apilevel: closed")

	// ErrBadMagic is returned when a file is not a knowledge base.
	ErrBadMagic = kb.ErrBadMagic
	// ErrFormatVersion is returned when a knowledge base was written by
	// another format version.
	ErrFormatVersion = kb.ErrFormatVersion
	// ErrCorrupt is returned when a knowledge base fails validation.
	ErrCorrupt = kb.ErrCorrupt
	// ErrInvariant is returned when an API cannot be written.
	ErrInvariant = kb.ErrInvariant
)

// BuildError describes an API fact that cannot be written to a knowledge base.
type BuildError = kb.BuildError

// LoadError reports why a knowledge base could not be loaded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type LoadError struct {
	Path   string
	Reason Reason
	cause  error
}

func (e *LoadError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.cause)
}

// Unwrap returns ErrNoDatabase together with the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrNoDatabase, e.cause}
	}
	return []error{ErrNoDatabase}
}

// isInvalid reports whether err means the file exists but cannot be used as
// is. Such files are regenerated.
func isInvalid(err error) bool {
	return errors.Is(err, kb.ErrBadMagic) ||
		errors.Is(err, kb.ErrFormatVersion) ||
		errors.Is(err, kb.ErrCorrupt)
}

func invalidReason(err error) Reason {
	if errors.Is(err, kb.ErrBadMagic) || errors.Is(err, kb.ErrFormatVersion) {
		return ReasonFormat
	}
	return ReasonCorrupt
}

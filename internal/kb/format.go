package kb

import (
	"errors"
	"fmt"
)

const (
	// Magic identifies a knowledge base file.
	Magic = "Platform API version database\x00"
	// FormatVersion must be bumped whenever written bytes or query results change.
	FormatVersion = 1

	headerSize = len(Magic) + 1 + 4 + 4

	maxIndex      = 1<<24 - 1
	maxRangeCount = 1<<16 - 1
	maxEdges      = 1<<8 - 1
	maxShortcut   = 1<<8 - 1
)

var (
	// ErrBadMagic is returned when the buffer is not a knowledge base.
	ErrBadMagic = errors.New("kb: invalid magic header")
	// ErrFormatVersion is returned when the buffer was written by another format version.
	ErrFormatVersion = errors.New("kb: unsupported format version")
	// ErrCorrupt is returned when the buffer fails structural validation.
	ErrCorrupt = errors.New("kb: corrupt database")
	// ErrInvariant is returned when the API cannot be represented in the binary format.
	ErrInvariant = errors.New("kb: build invariant violated")
)

// BuildError describes an API fact that cannot be written.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type BuildError struct {
	Class  string
	Member string
	Reason string
	cause  error
}

func (e *BuildError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("kb: cannot write %s.%s: %s", e.Class, e.Member, e.Reason)
	}
	return fmt.Sprintf("kb: cannot write %s: %s", e.Class, e.Reason)
}

// Unwrap returns ErrInvariant together with the underlying cause.
func (e *BuildError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvariant, e.cause}
	}
	return []error{ErrInvariant}
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}

func appendUint24(b []byte, v uint32) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

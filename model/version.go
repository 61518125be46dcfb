package model

import (
	"errors"
	"fmt"
	"io"
)

// Version is a platform API level.
type Version uint8

const (
	// MaxVersion is the largest version representable in the binary format.
	MaxVersion Version = 0x7f

	continuationBit = 0x80
)

// ErrVersionRange is returned when a version does not fit into seven bits.
var ErrVersionRange = errors.New("version out of range")

// VersionInfo is the lifecycle of a class or member.
// A zero Deprecated or Removed means the entity was never deprecated or removed.
type VersionInfo struct {
	Since      Version `json:"since"`
	Deprecated Version `json:"deprecated,omitempty"`
	Removed    Version `json:"removed,omitempty"`
}

// IsDeprecated reports whether the entity has a deprecation version.
func (v VersionInfo) IsDeprecated() bool { return v.Deprecated != 0 }

// IsRemoved reports whether the entity has a removal version.
func (v VersionInfo) IsRemoved() bool { return v.Removed != 0 }

// Validate checks that every version fits the binary encoding.
func (v VersionInfo) Validate() error {
	if v.Since == 0 || v.Since > MaxVersion {
		return fmt.Errorf("%w: since %d", ErrVersionRange, v.Since)
	}
	if v.Deprecated > MaxVersion {
		return fmt.Errorf("%w: deprecated %d", ErrVersionRange, v.Deprecated)
	}
	if v.Removed > MaxVersion {
		return fmt.Errorf("%w: removed %d", ErrVersionRange, v.Removed)
	}
	return nil
}

// EncodedLen returns the number of bytes AppendVersionInfo writes for v.
func (v VersionInfo) EncodedLen() int {
	switch {
	case v.Removed != 0:
		return 3
	case v.Deprecated != 0:
		return 2
	default:
		return 1
	}
}

// String returns a string representation of the VersionInfo.
func (v VersionInfo) String() string {
	return fmt.Sprintf("since=%d deprecated=%d removed=%d", v.Since, v.Deprecated, v.Removed)
}

// AppendVersionInfo appends the continuation-bit encoding of v to dst.
// The caller must have validated v.
func AppendVersionInfo(dst []byte, v VersionInfo) []byte {
	dst = append(dst, byte(v.Since))
	if v.Deprecated == 0 && v.Removed == 0 {
		return dst
	}
	dst[len(dst)-1] |= continuationBit
	dst = append(dst, byte(v.Deprecated))
	if v.Removed == 0 {
		return dst
	}
	dst[len(dst)-1] |= continuationBit
	return append(dst, byte(v.Removed))
}

// DecodeVersionInfo decodes a VersionInfo from the start of b and returns
// the number of bytes consumed.
func DecodeVersionInfo(b []byte) (VersionInfo, int, error) {
	var v VersionInfo
	if len(b) < 1 {
		return v, 0, io.ErrUnexpectedEOF
	}
	v.Since = Version(b[0] &^ continuationBit)
	if b[0]&continuationBit == 0 {
		return v, 1, nil
	}
	if len(b) < 2 {
		return v, 1, io.ErrUnexpectedEOF
	}
	v.Deprecated = Version(b[1] &^ continuationBit)
	if b[1]&continuationBit == 0 {
		return v, 2, nil
	}
	if len(b) < 3 {
		return v, 2, io.ErrUnexpectedEOF
	}
	v.Removed = Version(b[2] &^ continuationBit)
	return v, 3, nil
}

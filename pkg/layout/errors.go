// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPackaged means the file does not end with a valid kickoff
	// trailer: it is not a produced binary, or its trailer is corrupt.
	ErrNotPackaged = errors.New("not a kickoff binary (missing or corrupt trailer)")

	// ErrInvalidManifestData is the sentinel error wrapped by DecodeError.
	ErrInvalidManifestData = errors.New("invalid manifest data")

	// ErrManifestEncode is returned when a manifest cannot be serialized.
	ErrManifestEncode = errors.New("cannot encode manifest")
)

type (
	// FormatError describes why a trailer could not be trusted.
	// It matches ErrNotPackaged with errors.Is.
	FormatError struct {
		Reason string
	}

	// DecodeError is returned when the manifest region named by a valid
	// trailer cannot be decoded. It matches ErrInvalidManifestData with
	// errors.Is and exposes the underlying decoder error.
	DecodeError struct {
		Section Section
		Err     error
	}
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotPackaged.Error(), e.Reason)
}

// Unwrap returns ErrNotPackaged for errors.Is() compatibility.
func (e *FormatError) Unwrap() error { return ErrNotPackaged }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid manifest data at %s: %v", e.Section, e.Err)
}

// Unwrap returns both ErrInvalidManifestData and the decoder error.
func (e *DecodeError) Unwrap() []error { return []error{ErrInvalidManifestData, e.Err} }

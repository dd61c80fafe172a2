// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid manifest")

type (
	// Manifest is the invocation descriptor of the target program.
	// Argv[0] is the program path handed to the operating system; Env holds
	// variables that are added to (or override) the inherited environment.
	Manifest struct {
		Argv []string          `json:"argv" toml:"argv"`
		Env  map[string]string `json:"env" toml:"env"`
	}

	// InvalidManifestError is returned by Validate and lists every problem
	// found in the manifest.
	InvalidManifestError struct {
		FieldErrors []error
	}
)

// New creates a Manifest from copies of argv and env.
func New(argv []string, env map[string]string) *Manifest {
	m := &Manifest{
		Argv: slices.Clone(argv),
		Env:  make(map[string]string, len(env)),
	}
	maps.Copy(m.Env, env)
	return m
}

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid manifest: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// Program returns argv[0], or "" when the manifest has no arguments.
func (m *Manifest) Program() string {
	if m == nil || len(m.Argv) == 0 {
		return ""
	}
	return m.Argv[0]
}

// Validate checks that the manifest describes a launchable invocation:
// a non-empty argv with a non-empty program, no NUL bytes anywhere (they
// cannot cross the exec boundary), environment names that are non-empty
// and contain no '=', and only UTF-8 text.
func (m *Manifest) Validate() error {
	if m == nil {
		return &InvalidManifestError{FieldErrors: []error{errors.New("manifest is nil")}}
	}

	var errs []error

	if len(m.Argv) == 0 {
		errs = append(errs, errors.New("argv: must contain at least the program path"))
	} else if m.Argv[0] == "" {
		errs = append(errs, errors.New("argv[0]: program path must not be empty"))
	}
	for i, arg := range m.Argv {
		if strings.IndexByte(arg, 0) >= 0 {
			errs = append(errs, fmt.Errorf("argv[%d]: contains a NUL byte", i))
		}
	}

	for _, key := range slices.Sorted(maps.Keys(m.Env)) {
		switch {
		case key == "":
			errs = append(errs, errors.New("env: variable name must not be empty"))
		case strings.IndexByte(key, '=') >= 0:
			errs = append(errs, fmt.Errorf("env[%q]: variable name must not contain '='", key))
		case strings.IndexByte(key, 0) >= 0:
			errs = append(errs, fmt.Errorf("env[%q]: variable name contains a NUL byte", key))
		}
		if strings.IndexByte(m.Env[key], 0) >= 0 {
			errs = append(errs, fmt.Errorf("env[%q]: value contains a NUL byte", key))
		}
	}

	if err := m.checkUTF8(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidManifestError{FieldErrors: errs}
	}
	return nil
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	return New(m.Argv, m.Env)
}

// Equal reports whether two manifests describe the same invocation.
// Nil and empty collections compare equal.
func (m *Manifest) Equal(other *Manifest) bool {
	if m == nil || other == nil {
		return m == other
	}
	return slices.Equal(m.Argv, other.Argv) && maps.Equal(m.Env, other.Env)
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nimbus-build/kickoff/pkg/platform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultOutputMode is the permission set of produced launchers.
	DefaultOutputMode OutputMode = 0o755
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputMode is returned when an OutputMode is outside 0001-0777.
	ErrInvalidOutputMode = errors.New("invalid output mode")
	// ErrInvalidRuntimeDirPath is returned when a RuntimeDirPath value is whitespace-only.
	ErrInvalidRuntimeDirPath = errors.New("invalid runtime dir path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputMode holds the permission bits of produced launchers.
	OutputMode uint32

	// RuntimeDirPath is the directory searched for runtime stubs.
	// The zero value ("") is valid and means "next to the kickoff executable".
	RuntimeDirPath string

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultTarget is the target triple used when none is given.
		// Empty selects the host platform.
		DefaultTarget string `json:"default_target" mapstructure:"default_target"`
		// RuntimeDir is where runtime stubs are looked up.
		RuntimeDir RuntimeDirPath `json:"runtime_dir" mapstructure:"runtime_dir"`
		// Output configures how launchers are written.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// OutputConfig configures how launchers are written.
	OutputConfig struct {
		Mode   OutputMode `json:"mode" mapstructure:"mode"`
		Atomic bool       `json:"atomic" mapstructure:"atomic"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Validate returns an error listing every invalid field of the Config.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultTarget != "" {
		if _, err := platform.Lookup(c.DefaultTarget); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.RuntimeDir.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Output.Mode.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Target resolves the configured default target, falling back to the host.
func (c Config) Target() (platform.Target, error) {
	if c.DefaultTarget == "" {
		return platform.Host()
	}
	return platform.Lookup(c.DefaultTarget)
}

// RuntimeDirFor returns the runtime directory, defaulting to the directory
// containing exe.
func (c Config) RuntimeDirFor(exe string) string {
	if c.RuntimeDir != "" {
		return string(c.RuntimeDir)
	}
	return filepath.Dir(exe)
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both the
// sentinel and field-level sentinels match with errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the RuntimeDirPath.
func (p RuntimeDirPath) String() string { return string(p) }

// Validate rejects non-empty, whitespace-only paths.
func (p RuntimeDirPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w %q: non-empty value must not be whitespace-only", ErrInvalidRuntimeDirPath, string(p))
	}
	return nil
}

// FileMode returns the mode as fs.FileMode.
func (m OutputMode) FileMode() fs.FileMode { return fs.FileMode(m) }

// String returns the mode in octal notation.
func (m OutputMode) String() string { return fmt.Sprintf("%#o", uint32(m)) }

// Validate checks that the mode only holds permission bits and is not empty.
func (m OutputMode) Validate() error {
	if m == 0 || m > 0o777 {
		return fmt.Errorf("%w %s (must be between 01 and 0777)", ErrInvalidOutputMode, m)
	}
	return nil
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if the ColorScheme is not one of the defined schemes.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultTarget: "",
		RuntimeDir:    "", // Next to the kickoff executable
		Output: OutputConfig{
			Mode:   DefaultOutputMode,
			Atomic: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package subst

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// TokenSelfPath expands to the absolute path of the running binary.
	TokenSelfPath = "{kickoff.self.path}"
	// TokenSelfDir expands to the directory containing the running binary.
	TokenSelfDir = "{kickoff.self.dir}"
)

// ErrNotText is wrapped by SetupError when a substitution value cannot be
// represented as UTF-8 text.
var ErrNotText = errors.New("value is not valid UTF-8 text")

type (
	// Rule rewrites a string. Rules must be pure.
	Rule func(string) string

	// SetupError is returned when a built-in rule cannot be constructed.
	SetupError struct {
		Token string
		Value string
		Err   error
	}
)

// Error implements the error interface.
func (e *SetupError) Error() string {
	return fmt.Sprintf("cannot substitute %s with %q: %v", e.Token, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *SetupError) Unwrap() error { return e.Err }

// Apply runs rules over input in order, each one seeing the result of the
// previous. Input that is not valid UTF-8 is returned unchanged.
func Apply(input string, rules []Rule) string {
	if !utf8.ValidString(input) {
		return input
	}
	out := input
	for _, rule := range rules {
		out = rule(out)
	}
	return out
}

// ApplyAll returns a new slice with Apply run over every element.
func ApplyAll(inputs []string, rules []Rule) []string {
	out := make([]string, len(inputs))
	for i, s := range inputs {
		out[i] = Apply(s, rules)
	}
	return out
}

// ApplyValues returns a copy of env with Apply run over every value.
// Keys are left as they are.
func ApplyValues(env map[string]string, rules []Rule) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = Apply(v, rules)
	}
	return out
}

// Literal returns a rule replacing every non-overlapping occurrence of
// token with value.
func Literal(token, value string) Rule {
	return func(s string) string {
		return strings.ReplaceAll(s, token, value)
	}
}

// SelfPath returns the rule for TokenSelfPath.
func SelfPath(path string) (Rule, error) {
	return textRule(TokenSelfPath, path)
}

// SelfDir returns the rule for TokenSelfDir.
func SelfDir(dir string) (Rule, error) {
	return textRule(TokenSelfDir, dir)
}

// Builtins returns the built-in rules for the binary at exe. The directory
// is derived with filepath.Dir. Any construction failure aborts.
func Builtins(exe string) ([]Rule, error) {
	self, err := SelfPath(exe)
	if err != nil {
		return nil, err
	}
	dir, err := SelfDir(filepath.Dir(exe))
	if err != nil {
		return nil, err
	}
	return []Rule{self, dir}, nil
}

func textRule(token, value string) (Rule, error) {
	if !utf8.ValidString(value) {
		return nil, &SetupError{Token: token, Value: value, Err: ErrNotText}
	}
	return Literal(token, value), nil
}

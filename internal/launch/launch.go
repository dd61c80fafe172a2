// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"syscall"

	"github.com/nimbus-build/kickoff/pkg/types"
)

// ErrEmptyArgv is returned by Exec when there is no program to run.
var ErrEmptyArgv = errors.New("argv must contain at least the program path")

// Error reports a failed process replacement. Path is the program that
// could not be executed.
type Error struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("exec: %v", e.Err)
	}
	return fmt.Sprintf("exec %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *Error) Unwrap() error { return e.Err }

// MergeArgs returns the manifest argv followed by the caller's arguments.
func MergeArgs(manifestArgv, callerArgs []string) []string {
	out := make([]string, 0, len(manifestArgv)+len(callerArgs))
	out = append(out, manifestArgv...)
	return append(out, callerArgs...)
}

// MergeEnv overlays overrides on base, a list of KEY=VALUE entries as
// returned by os.Environ. Base order is kept and an overridden variable
// keeps its position. Variables only present in overrides are appended in
// sorted order. Entries without a name (such as the Windows "=C:=C:\dir"
// drive variables) are carried through untouched.
func MergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	applied := make(map[string]bool, len(overrides))

	for _, entry := range base {
		if key, ok := entryName(entry); ok {
			if value, found := overrides[key]; found {
				entry = key + "=" + value
				applied[key] = true
			}
		}
		out = append(out, entry)
	}

	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		if !applied[key] {
			out = append(out, key+"="+overrides[key])
		}
	}
	return out
}

// Exec replaces the current process with argv[0], passing argv and env.
// argv[0] is used as given; no PATH search is performed. Exec only returns
// on failure, always with an *Error.
func Exec(argv, env []string) error {
	if len(argv) == 0 {
		return &Error{Err: ErrEmptyArgv}
	}

	b, err := encodeBlock(argv, env)
	if err != nil {
		return &Error{Path: argv[0], Err: err}
	}
	return &Error{Path: argv[0], Err: b.exec()}
}

// ExitCode maps a launch failure to the status the runtime exits with: the
// OS error number folded to 8 bits when one is available, otherwise
// ExitFailure.
func ExitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return types.ExitCode(errno).Truncate()
	}
	return types.ExitFailure
}

func entryName(entry string) (string, bool) {
	key, _, ok := strings.Cut(entry, "=")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func encodeError(kind string, i int, err error) error {
	return fmt.Errorf("%s[%d]: %w", kind, i, err)
}

// SPDX-License-Identifier: MPL-2.0

package entrypoint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/xyproto/env/v2"

	"github.com/nimbus-build/kickoff/internal/launch"
	"github.com/nimbus-build/kickoff/internal/subst"
	"github.com/nimbus-build/kickoff/pkg/layout"
	"github.com/nimbus-build/kickoff/pkg/types"
)

const (
	// DebugEnv enables debug logging of the resolved invocation when set to
	// a true value.
	DebugEnv = "KICKOFF_DEBUG"

	logPrefix = "kickoff.runtime"
)

// Entrypoint holds the process state the runtime works from. Every field
// is replaceable so the routine can run against fakes.
type Entrypoint struct {
	// Executable returns the absolute path of the running binary.
	Executable func() (string, error)
	// Args are the caller's arguments, without the program name.
	Args []string
	// Environ returns the inherited environment as KEY=VALUE entries.
	Environ func() []string
	// Exec replaces the process. It only returns on failure.
	Exec func(argv, env []string) error
	// Logger receives the single error line of a failed launch and, at
	// debug level, the resolved invocation.
	Logger *log.Logger
}

// Invocation is the fully resolved target command line.
type Invocation struct {
	Argv []string
	Env  []string
}

// New returns an Entrypoint bound to the current process.
func New() *Entrypoint {
	return &Entrypoint{
		Executable: Executable,
		Args:       callerArgs(os.Args),
		Environ:    os.Environ,
		Exec:       launch.Exec,
		Logger:     NewLogger(os.Stderr, env.Bool(DebugEnv)),
	}
}

// callerArgs drops the program name from argv. A process may be started
// with an empty argv, in which case there are no caller arguments.
func callerArgs(argv []string) []string {
	if len(argv) < 2 {
		return nil
	}
	return argv[1:]
}

// NewLogger returns the runtime's logger writing to w.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: logPrefix})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Executable returns the path of the running binary with symlinks resolved.
func Executable() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}
	return resolved, nil
}

// Resolve reads the manifest of the binary at exe and builds the
// invocation it describes, with built-in tokens expanded in every argument
// and every environment value. The file is closed before Resolve returns.
func (e *Entrypoint) Resolve(exe string) (*Invocation, error) {
	img, err := layout.ReadFile(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest from %s: %w", exe, err)
	}

	rules, err := subst.Builtins(exe)
	if err != nil {
		return nil, err
	}

	argv := subst.ApplyAll(img.Manifest.Argv, rules)
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("manifest in %s names no program", exe)
	}

	return &Invocation{
		Argv: launch.MergeArgs(argv, e.Args),
		Env:  launch.MergeEnv(e.Environ(), subst.ApplyValues(img.Manifest.Env, rules)),
	}, nil
}

// Run executes the runtime routine and returns the status the process
// should exit with. It only returns when the target could not be started.
func (e *Entrypoint) Run() types.ExitCode {
	exe, err := e.Executable()
	if err != nil {
		e.Logger.Error("cannot locate the running binary", "err", err)
		return types.ExitFailure
	}

	inv, err := e.Resolve(exe)
	if err != nil {
		e.Logger.Error("cannot prepare launch", "file", exe, "err", err)
		return types.ExitFailure
	}

	e.Logger.Debug("launching", "program", inv.Argv[0], "argv", inv.Argv)

	if err := e.Exec(inv.Argv, inv.Env); err != nil {
		e.Logger.Error("failed to execute target", "program", inv.Argv[0], "err", err)
		return launch.ExitCode(err)
	}
	return types.ExitSuccess
}

// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"cmp"
	"errors"
	"fmt"
	"runtime"
	"slices"
)

// RuntimePrefix is the file name prefix of every runtime stub.
const RuntimePrefix = "kickoff-runtime"

var (
	// ErrUnknownTarget is the sentinel error wrapped by UnknownTargetError.
	ErrUnknownTarget = errors.New("unknown target")

	// targets lists every supported triple. aarch64 Windows reuses the
	// x86_64 runtime, which Windows 11 runs under emulation.
	targets = []Target{
		{Triple: "aarch64-apple-macos-none", Arch: "aarch64", OS: "macos", RuntimeArch: "aarch64"},
		{Triple: "aarch64-pc-windows-gnu", Arch: "aarch64", OS: Windows, RuntimeArch: "x86_64"},
		{Triple: "aarch64-unknown-linux-gnu", Arch: "aarch64", OS: Linux, RuntimeArch: "aarch64"},
		{Triple: "x86_64-apple-macos-none", Arch: "x86_64", OS: "macos", RuntimeArch: "x86_64"},
		{Triple: "x86_64-pc-windows-gnu", Arch: "x86_64", OS: Windows, RuntimeArch: "x86_64"},
		{Triple: "x86_64-unknown-linux-gnu", Arch: "x86_64", OS: Linux, RuntimeArch: "x86_64"},
	}

	goArchNames = map[string]string{"amd64": "x86_64", "arm64": "aarch64"}
	goOSNames   = map[string]string{Linux: Linux, Darwin: "macos", Windows: Windows}
)

type (
	// Target is a platform launchers can be produced for.
	Target struct {
		// Triple is the canonical target name.
		Triple string
		// Arch and OS are the CPU and operating system names used in triples.
		Arch string
		OS   string
		// RuntimeArch is the architecture of the runtime stub used for the
		// target. It differs from Arch only where emulation is relied upon.
		RuntimeArch string
	}

	// UnknownTargetError is returned when a triple or host platform has no
	// matching target.
	UnknownTargetError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unrecognized target: %s", e.Name)
}

// Unwrap returns ErrUnknownTarget for errors.Is() compatibility.
func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

// String returns the triple.
func (t Target) String() string { return t.Triple }

// IsWindows reports whether launchers for t run on Windows.
func (t Target) IsWindows() bool { return t.OS == Windows }

// RuntimeFileName returns the file name of the runtime stub for t, for
// example "kickoff-runtime-x86_64-linux" or "kickoff-runtime-x86_64-windows.exe".
func (t Target) RuntimeFileName() string {
	name := fmt.Sprintf("%s-%s-%s", RuntimePrefix, t.RuntimeArch, t.OS)
	if t.IsWindows() {
		name += ".exe"
	}
	return name
}

// Targets returns every supported target ordered by triple.
func Targets() []Target {
	out := slices.Clone(targets)
	slices.SortFunc(out, func(a, b Target) int { return cmp.Compare(a.Triple, b.Triple) })
	return out
}

// Lookup returns the target named by triple.
func Lookup(triple string) (Target, error) {
	for _, t := range targets {
		if t.Triple == triple {
			return t, nil
		}
	}
	return Target{}, &UnknownTargetError{Name: triple}
}

// Host returns the target matching the running platform.
func Host() (Target, error) {
	return hostTarget(runtime.GOARCH, runtime.GOOS)
}

func hostTarget(goarch, goos string) (Target, error) {
	arch, archOK := goArchNames[goarch]
	osName, osOK := goOSNames[goos]
	if !archOK || !osOK {
		return Target{}, &UnknownTargetError{Name: goarch + "-" + goos}
	}
	for _, t := range targets {
		if t.Arch == arch && t.OS == osName {
			return t, nil
		}
	}
	return Target{}, &UnknownTargetError{Name: arch + "-" + osName}
}

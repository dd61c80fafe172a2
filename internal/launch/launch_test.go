// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"syscall"
	"testing"

	"github.com/nimbus-build/kickoff/pkg/types"
)

func TestMergeArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest []string
		caller   []string
		want     []string
	}{
		{"no caller args", []string{"/bin/app", "--flag"}, nil, []string{"/bin/app", "--flag"}},
		{"caller args appended", []string{"/bin/app", "--flag"}, []string{"x", "--y"}, []string{"/bin/app", "--flag", "x", "--y"}},
		{"empty strings kept", []string{"/bin/app", ""}, []string{""}, []string{"/bin/app", "", ""}},
		{"duplicates kept", []string{"/bin/app", "-v"}, []string{"-v"}, []string{"/bin/app", "-v", "-v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MergeArgs(tt.manifest, tt.caller)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MergeArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeArgsDoesNotAlias(t *testing.T) {
	t.Parallel()

	manifestArgv := make([]string, 2, 8)
	manifestArgv[0], manifestArgv[1] = "/bin/app", "a"

	got := MergeArgs(manifestArgv, []string{"b"})
	got[0] = "changed"
	if manifestArgv[0] != "/bin/app" {
		t.Error("MergeArgs() result aliases the manifest argv")
	}
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		base      []string
		overrides map[string]string
		want      []string
	}{
		{
			name: "no overrides",
			base: []string{"A=1", "B=2"},
			want: []string{"A=1", "B=2"},
		},
		{
			name:      "override in place",
			base:      []string{"A=1", "B=2", "C=3"},
			overrides: map[string]string{"B": "two"},
			want:      []string{"A=1", "B=two", "C=3"},
		},
		{
			name:      "new keys appended sorted",
			base:      []string{"A=1"},
			overrides: map[string]string{"Z": "26", "M": "13"},
			want:      []string{"A=1", "M=13", "Z=26"},
		},
		{
			name:      "empty value override",
			base:      []string{"A=1"},
			overrides: map[string]string{"A": ""},
			want:      []string{"A="},
		},
		{
			name:      "values containing equals",
			base:      []string{"OPTS=a=b"},
			overrides: map[string]string{"OPTS": "c=d"},
			want:      []string{"OPTS=c=d"},
		},
		{
			name:      "windows drive variables carried verbatim",
			base:      []string{"=C:=C:\\work", "PATH=C:\\bin"},
			overrides: map[string]string{"PATH": "D:\\bin"},
			want:      []string{"=C:=C:\\work", "PATH=D:\\bin"},
		},
		{
			name:      "malformed entries carried verbatim",
			base:      []string{"NOEQUALS", "A=1"},
			overrides: map[string]string{"NOEQUALS": "x"},
			want:      []string{"NOEQUALS", "A=1", "NOEQUALS=x"},
		},
		{
			name:      "duplicate base keys all overridden",
			base:      []string{"A=1", "A=2"},
			overrides: map[string]string{"A": "3"},
			want:      []string{"A=3", "A=3"},
		},
		{
			name:      "keys are case sensitive",
			base:      []string{"Path=x"},
			overrides: map[string]string{"PATH": "y"},
			want:      []string{"Path=x", "PATH=y"},
		},
		{
			name:      "empty base",
			overrides: map[string]string{"A": "1"},
			want:      []string{"A=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MergeEnv(tt.base, tt.overrides)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MergeEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeEnvNeverDropsBaseEntries(t *testing.T) {
	t.Parallel()

	base := []string{"A=1", "B=2", "=D:=D:\\", "C=3"}
	got := MergeEnv(base, map[string]string{"B": "x", "E": "5"})
	if len(got) != len(base)+1 {
		t.Fatalf("MergeEnv() = %q, want %d entries", got, len(base)+1)
	}
	if base[1] != "B=2" {
		t.Error("MergeEnv() modified its input")
	}
}

func TestExecWithEmptyArgv(t *testing.T) {
	t.Parallel()

	err := Exec(nil, nil)
	var launchErr *Error
	if !errors.As(err, &launchErr) {
		t.Fatalf("Exec() error = %v, want *Error", err)
	}
	if !errors.Is(err, ErrEmptyArgv) {
		t.Errorf("Exec() error = %v, want ErrEmptyArgv", err)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := &Error{Path: "/opt/app", Err: fs.ErrNotExist}
	if got, want := err.Error(), `exec "/opt/app": file does not exist`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Error should unwrap to its cause")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"errno", &Error{Path: "x", Err: syscall.Errno(2)}, 2},
		{"wrapped errno", fmt.Errorf("launch: %w", &Error{Err: syscall.Errno(13)}), 13},
		{"errno truncated", syscall.Errno(0x102), 2},
		{"errno truncating to zero", syscall.Errno(0x100), types.ExitFailure},
		{"zero errno", syscall.Errno(0), types.ExitFailure},
		{"empty argv", Exec(nil, nil), types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

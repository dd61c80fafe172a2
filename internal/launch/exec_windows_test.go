// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launch

import (
	"errors"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/nimbus-build/kickoff/pkg/types"

	"golang.org/x/sys/windows"
)

func TestExecFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		crt      int32
		lastErr  error
		wantCode types.ExitCode
	}{
		{"crt errno wins", 2, windows.ERROR_ACCESS_DENIED, 2},
		{"last error when crt errno is unset", 0, windows.ERROR_ACCESS_DENIED, 5},
		{"no error code", 0, windows.Errno(0), types.ExitFailure},
		{"non-errno last error", 0, errors.New("not an errno"), types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := execFailure(tt.crt, tt.lastErr)
			if err == nil {
				t.Fatal("execFailure() = nil")
			}
			if got := ExitCode(&Error{Path: "app.exe", Err: err}); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestExecMissingProgramReportsErrno(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.exe")
	err := Exec([]string{missing}, nil)

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		t.Fatalf("Exec() error = %v, want an errno", err)
	}
	if code := ExitCode(err); code == types.ExitSuccess {
		t.Errorf("ExitCode() = %d, want non-zero", code)
	}
}

// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launch

import (
	"errors"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	msvcrt       = windows.NewLazySystemDLL("msvcrt.dll")
	procWexecve  = msvcrt.NewProc("_wexecve")
	procGetErrno = msvcrt.NewProc("_get_errno")
)

// errNoErrorCode is reported when _wexecve fails without setting any error
// number, so the runtime exits with the generic failure status.
var errNoErrorCode = errors.New("_wexecve failed without an error code")

// block owns every UTF-16 buffer handed to _wexecve together with the
// pointer tables referencing them. It must stay reachable until the call
// returns.
type block struct {
	path  []uint16
	argv  [][]uint16
	env   [][]uint16
	argvp []*uint16
	envp  []*uint16
}

func encodeBlock(argv, env []string) (*block, error) {
	b := &block{
		argv: make([][]uint16, 0, len(argv)),
		env:  make([][]uint16, 0, len(env)),
	}

	path, err := windows.UTF16FromString(argv[0])
	if err != nil {
		return nil, encodeError("argv", 0, err)
	}
	b.path = path

	// The C runtime joins argv with spaces, so each argument is quoted the
	// way CommandLineToArgvW splits it again.
	for i, s := range argv {
		buf, err := windows.UTF16FromString(windows.EscapeArg(s))
		if err != nil {
			return nil, encodeError("argv", i, err)
		}
		b.argv = append(b.argv, buf)
	}
	for i, s := range env {
		buf, err := windows.UTF16FromString(s)
		if err != nil {
			return nil, encodeError("env", i, err)
		}
		b.env = append(b.env, buf)
	}

	// Pointer tables are built last, once no buffer is appended anymore.
	b.argvp = pointerTable(b.argv)
	b.envp = pointerTable(b.env)
	return b, nil
}

func pointerTable(bufs [][]uint16) []*uint16 {
	table := make([]*uint16, 0, len(bufs)+1)
	for _, buf := range bufs {
		table = append(table, &buf[0])
	}
	return append(table, nil)
}

func (b *block) exec() error {
	if err := procWexecve.Find(); err != nil {
		return err
	}

	// _wexecve only returns on failure.
	_, _, callErr := procWexecve.Call(
		uintptr(unsafe.Pointer(&b.path[0])),
		uintptr(unsafe.Pointer(&b.argvp[0])),
		uintptr(unsafe.Pointer(&b.envp[0])),
	)
	runtime.KeepAlive(b)

	return execFailure(crtErrno(), callErr)
}

// crtErrno returns the C runtime's errno, where _wexecve reports failures.
func crtErrno() int32 {
	if err := procGetErrno.Find(); err != nil {
		return 0
	}
	var v int32
	if ret, _, _ := procGetErrno.Call(uintptr(unsafe.Pointer(&v))); ret != 0 {
		return 0
	}
	return v
}

// execFailure picks the error for a failed _wexecve: the CRT errno first,
// then the thread's last Win32 error.
func execFailure(crt int32, lastErr error) error {
	if crt != 0 {
		return syscall.Errno(crt)
	}
	if errno, ok := lastErr.(windows.Errno); ok && errno != 0 {
		return errno
	}
	return errNoErrorCode
}

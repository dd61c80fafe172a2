// SPDX-License-Identifier: MPL-2.0

//go:build unix

package launch

import (
	"golang.org/x/sys/unix"
)

// block holds the validated invocation. Go strings are already UTF-8, so
// the only encoding concern is the NUL terminator execve(2) appends.
type block struct {
	path string
	argv []string
	env  []string
}

func encodeBlock(argv, env []string) (*block, error) {
	for i, s := range argv {
		if _, err := unix.ByteSliceFromString(s); err != nil {
			return nil, encodeError("argv", i, err)
		}
	}
	for i, s := range env {
		if _, err := unix.ByteSliceFromString(s); err != nil {
			return nil, encodeError("env", i, err)
		}
	}
	return &block{path: argv[0], argv: argv, env: env}, nil
}

func (b *block) exec() error {
	return unix.Exec(b.path, b.argv, b.env)
}

// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nimbus-build/kickoff/pkg/layout"
	"github.com/nimbus-build/kickoff/pkg/manifest"
)

// DefaultMode is the permission set given to produced binaries.
const DefaultMode fs.FileMode = 0o755

var (
	// ErrNotAtStart is returned by Package when the destination is not
	// positioned at offset zero.
	ErrNotAtStart = errors.New("destination must be positioned at offset 0")

	// ErrOutputIsStub is returned by CreateFile when writing in place would
	// truncate the runtime stub it is reading from.
	ErrOutputIsStub = errors.New("output is the runtime stub itself")
)

// Options controls how CreateFile writes its output.
type Options struct {
	// Mode is the permission set of the output file. Zero means DefaultMode.
	Mode fs.FileMode
	// Atomic writes to a temporary file in the destination directory and
	// renames it into place, so a failure never leaves a partial binary.
	Atomic bool
}

func (o Options) mode() fs.FileMode {
	if o.Mode == 0 {
		return DefaultMode
	}
	return o.Mode
}

// Package writes the runtime stub read from stub, then m and the trailer,
// to w. The manifest is validated before anything is written.
func Package(w io.WriteSeeker, stub io.Reader, m *manifest.Manifest) (layout.Trailer, error) {
	if err := m.Validate(); err != nil {
		return layout.Trailer{}, err
	}

	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return layout.Trailer{}, fmt.Errorf("locate output offset: %w", err)
	}
	if pos != 0 {
		return layout.Trailer{}, fmt.Errorf("%w (at %d)", ErrNotAtStart, pos)
	}

	if _, err := io.Copy(w, stub); err != nil {
		return layout.Trailer{}, fmt.Errorf("write runtime: %w", err)
	}

	return layout.WriteManifest(w, m)
}

// CreateFile packages stub and m into the file at path, replacing any
// existing file. Without opts.Atomic a failure may leave partial output
// behind.
func CreateFile(path string, stub io.Reader, m *manifest.Manifest, opts Options) (layout.Trailer, error) {
	if err := m.Validate(); err != nil {
		return layout.Trailer{}, err
	}
	if opts.Atomic {
		return createAtomic(path, stub, m, opts.mode())
	}
	return createDirect(path, stub, m, opts.mode())
}

func createDirect(path string, stub io.Reader, m *manifest.Manifest, mode fs.FileMode) (_ layout.Trailer, err error) {
	if err := checkNotStub(path, stub); err != nil {
		return layout.Trailer{}, err
	}

	// #nosec G304 -- the output path is an explicit operator argument.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return layout.Trailer{}, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	t, err := Package(f, stub, m)
	if err != nil {
		return layout.Trailer{}, err
	}
	// An existing file keeps its old permissions on O_TRUNC.
	if err := f.Chmod(mode); err != nil {
		return layout.Trailer{}, fmt.Errorf("chmod output: %w", err)
	}
	return t, nil
}

// checkNotStub fails when path names the file stub is read from.
func checkNotStub(path string, stub io.Reader) error {
	f, ok := stub.(*os.File)
	if !ok {
		return nil
	}
	outInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat output: %w", err)
	}
	stubInfo, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat runtime: %w", err)
	}
	if os.SameFile(outInfo, stubInfo) {
		return fmt.Errorf("%w: %s", ErrOutputIsStub, path)
	}
	return nil
}

func createAtomic(path string, stub io.Reader, m *manifest.Manifest, mode fs.FileMode) (layout.Trailer, error) {
	parent := filepath.Dir(path)
	base := filepath.Base(path)

	tempFile, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return layout.Trailer{}, fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempPath)
		}
	}()

	t, err := Package(tempFile, stub, m)
	if err != nil {
		_ = tempFile.Close()
		return layout.Trailer{}, err
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return layout.Trailer{}, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		return layout.Trailer{}, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return layout.Trailer{}, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS != "windows" {
			return layout.Trailer{}, fmt.Errorf("rename temp file: %w", err)
		}
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			return layout.Trailer{}, fmt.Errorf("remove destination before rename: %w", removeErr)
		}
		if renameErr := os.Rename(tempPath, path); renameErr != nil {
			return layout.Trailer{}, fmt.Errorf("rename temp file after remove: %w", renameErr)
		}
	}
	cleanup = false

	// #nosec G304 -- parent directory path is derived from the destination path.
	if dirHandle, err := os.Open(parent); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}
	return t, nil
}

// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/nimbus-build/kickoff/pkg/manifest"
)

// Image is the decoded metadata of a produced binary.
type Image struct {
	Trailer  Trailer
	Manifest *manifest.Manifest
	// Size is the total file size observed while reading.
	Size int64
}

// WriteManifest serializes m at the current position of w and appends the
// trailer. Everything before the current position is recorded as the
// runtime stub. Nothing is written when m cannot be serialized.
func WriteManifest(w io.WriteSeeker, m *manifest.Manifest) (Trailer, error) {
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return Trailer{}, fmt.Errorf("locate manifest offset: %w", err)
	}

	raw, err := m.MarshalCanonical()
	if err != nil {
		return Trailer{}, fmt.Errorf("%w: %w", ErrManifestEncode, err)
	}

	if _, err := w.Write(raw); err != nil {
		return Trailer{}, fmt.Errorf("write manifest: %w", err)
	}

	t := NewTrailer(uint64(pos), uint64(len(raw)))
	if err := WriteTrailer(w, t); err != nil {
		return Trailer{}, err
	}
	return t, nil
}

// Read decodes the trailer and the manifest of a produced binary.
//
// A missing magic number, a source too short to hold a trailer, or a
// manifest section that does not fit between the start of the file and the
// trailer are reported as errors matching ErrNotPackaged. A manifest region
// that cannot be decoded is reported as a *DecodeError.
func Read(r io.ReadSeeker) (*Image, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek to end: %w", err)
	}

	t, err := readTrailerAt(r, size)
	if err != nil {
		return nil, err
	}

	limit := uint64(size) - uint64(TrailerSize)
	if t.Manifest.Pos > limit || t.Manifest.Len > limit-t.Manifest.Pos {
		return nil, &FormatError{Reason: fmt.Sprintf("manifest section %s extends past the trailer at offset %d", t.Manifest, limit)}
	}

	if _, err := r.Seek(int64(t.Manifest.Pos), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to manifest: %w", err)
	}
	buf := make([]byte, t.Manifest.Len)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := manifest.Unmarshal(buf)
	if err != nil {
		return nil, &DecodeError{Section: t.Manifest, Err: err}
	}

	return &Image{Trailer: t, Manifest: m, Size: size}, nil
}

// ReadManifest decodes only the manifest of a produced binary.
func ReadManifest(r io.ReadSeeker) (*manifest.Manifest, error) {
	img, err := Read(r)
	if err != nil {
		return nil, err
	}
	return img.Manifest, nil
}

// ReadFile opens path read-only, decodes it and closes it again before
// returning, so no handle to the file outlives the call.
func ReadFile(path string) (_ *Image, err error) {
	// #nosec G304 -- the path is either the running executable or an explicit operator argument.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return Read(f)
}

// Verify checks the structural invariants of a trailer against the size of
// the file it was read from: the runtime starts at offset zero, the manifest
// follows the runtime immediately and the trailer follows the manifest
// immediately. Read itself only requires the manifest to be in bounds;
// Verify reports every deviation.
func (t Trailer) Verify(fileSize int64) error {
	if !t.HasMagic() {
		return ErrNotPackaged
	}
	if fileSize < int64(TrailerSize) {
		return &FormatError{Reason: fmt.Sprintf("file size %d is smaller than the trailer", fileSize)}
	}

	var errs []error
	limit := uint64(fileSize) - uint64(TrailerSize)

	if t.Runtime.Pos != 0 {
		errs = append(errs, &FormatError{Reason: fmt.Sprintf("runtime section starts at %d, want 0", t.Runtime.Pos)})
	}
	if t.Runtime.Len > math.MaxUint64-t.Runtime.Pos || t.Runtime.End() != t.Manifest.Pos {
		errs = append(errs, &FormatError{Reason: fmt.Sprintf("manifest starts at %d, want the end of runtime section (pos %d, len %d)", t.Manifest.Pos, t.Runtime.Pos, t.Runtime.Len)})
	}
	if t.Manifest.Pos > limit || t.Manifest.Len != limit-t.Manifest.Pos {
		errs = append(errs, &FormatError{Reason: fmt.Sprintf("manifest section (pos %d, len %d) does not end at %d (start of trailer)", t.Manifest.Pos, t.Manifest.Len, limit)})
	}

	return errors.Join(errs...)
}

// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic identifies a kickoff trailer.
	Magic = "k1ck0ff!"

	// TrailerSize is the encoded size of a Trailer in bytes.
	TrailerSize = len(Magic) + 4*8
)

type (
	// Section is the half-open byte range [Pos, Pos+Len) of a produced file.
	Section struct {
		Pos uint64
		Len uint64
	}

	// Trailer is the fixed-size record stored in the last TrailerSize bytes
	// of a produced binary.
	Trailer struct {
		Magic    [8]byte
		Runtime  Section
		Manifest Section
	}
)

// End returns the offset one past the last byte of the section.
func (s Section) End() uint64 { return s.Pos + s.Len }

// String implements fmt.Stringer.
func (s Section) String() string { return fmt.Sprintf("[%d, %d)", s.Pos, s.End()) }

// NewTrailer builds the trailer for a runtime stub of runtimeLen bytes that
// is directly followed by a manifest of manifestLen bytes.
func NewTrailer(runtimeLen, manifestLen uint64) Trailer {
	t := Trailer{
		Runtime:  Section{Pos: 0, Len: runtimeLen},
		Manifest: Section{Pos: runtimeLen, Len: manifestLen},
	}
	copy(t.Magic[:], Magic)
	return t
}

// HasMagic reports whether the trailer carries the kickoff magic number.
func (t Trailer) HasMagic() bool { return string(t.Magic[:]) == Magic }

// Offset returns the file offset at which the trailer itself starts.
func (t Trailer) Offset() uint64 { return t.Manifest.End() }

// Size returns the total size of the produced file the trailer describes.
func (t Trailer) Size() uint64 { return t.Offset() + uint64(TrailerSize) }

// MarshalBinary encodes the trailer in its fixed on-disk form.
func (t Trailer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, TrailerSize)
	buf = append(buf, t.Magic[:]...)
	buf = binary.NativeEndian.AppendUint64(buf, t.Runtime.Pos)
	buf = binary.NativeEndian.AppendUint64(buf, t.Runtime.Len)
	buf = binary.NativeEndian.AppendUint64(buf, t.Manifest.Pos)
	buf = binary.NativeEndian.AppendUint64(buf, t.Manifest.Len)
	return buf, nil
}

// UnmarshalBinary decodes a trailer. The magic number is checked before any
// other field is parsed.
func (t *Trailer) UnmarshalBinary(data []byte) error {
	if len(data) != TrailerSize {
		return &FormatError{Reason: fmt.Sprintf("trailer is %d bytes, want %d", len(data), TrailerSize)}
	}
	if string(data[:len(Magic)]) != Magic {
		return ErrNotPackaged
	}

	var decoded Trailer
	copy(decoded.Magic[:], data[:len(Magic)])
	fields := data[len(Magic):]
	decoded.Runtime.Pos = binary.NativeEndian.Uint64(fields[0:8])
	decoded.Runtime.Len = binary.NativeEndian.Uint64(fields[8:16])
	decoded.Manifest.Pos = binary.NativeEndian.Uint64(fields[16:24])
	decoded.Manifest.Len = binary.NativeEndian.Uint64(fields[24:32])

	*t = decoded
	return nil
}

// WriteTrailer writes the encoded trailer to w.
func WriteTrailer(w io.Writer, t Trailer) error {
	buf, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	return nil
}

// ReadTrailer reads the trailer from the last TrailerSize bytes of r.
// Sources shorter than a trailer, and trailers without the magic number,
// are reported as errors matching ErrNotPackaged.
func ReadTrailer(r io.ReadSeeker) (Trailer, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Trailer{}, fmt.Errorf("seek to end: %w", err)
	}
	return readTrailerAt(r, size)
}

func readTrailerAt(r io.ReadSeeker, size int64) (Trailer, error) {
	if size < int64(TrailerSize) {
		return Trailer{}, &FormatError{Reason: fmt.Sprintf("file is %d bytes, smaller than a %d-byte trailer", size, TrailerSize)}
	}
	if _, err := r.Seek(size-int64(TrailerSize), io.SeekStart); err != nil {
		return Trailer{}, fmt.Errorf("seek to trailer: %w", err)
	}

	buf := make([]byte, TrailerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Trailer{}, &FormatError{Reason: "truncated trailer"}
		}
		return Trailer{}, fmt.Errorf("read trailer: %w", err)
	}

	var t Trailer
	if err := t.UnmarshalBinary(buf); err != nil {
		return Trailer{}, err
	}
	return t, nil
}

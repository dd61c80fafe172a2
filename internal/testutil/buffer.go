// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"io"
	"math/rand/v2"
)

// SeekBuffer is an in-memory file: it implements io.Reader, io.Writer and
// io.Seeker over a growable byte slice, with os.File semantics for writes
// past the end (the gap is zero-filled).
type SeekBuffer struct {
	data []byte
	off  int64
}

// NewSeekBuffer returns a SeekBuffer holding a copy of data, positioned at
// offset zero.
func NewSeekBuffer(data []byte) *SeekBuffer {
	return &SeekBuffer{data: append([]byte(nil), data...)}
}

// Bytes returns the buffer contents.
func (b *SeekBuffer) Bytes() []byte { return b.data }

// Read implements io.Reader.
func (b *SeekBuffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.off:])
	b.off += int64(n)
	return n, nil
}

// Write implements io.Writer.
func (b *SeekBuffer) Write(p []byte) (int, error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.off:], p)
	b.off = end
	return len(p), nil
}

// Seek implements io.Seeker.
func (b *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("testutil.SeekBuffer.Seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("testutil.SeekBuffer.Seek: negative position")
	}
	b.off = abs
	return abs, nil
}

// FailingWriter is an io.WriteSeeker whose writes always fail with Err.
type FailingWriter struct {
	Err error
	off int64
}

// Write implements io.Writer.
func (w *FailingWriter) Write([]byte) (int, error) { return 0, w.Err }

// Seek implements io.Seeker.
func (w *FailingWriter) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekStart {
		w.off = offset
	} else {
		w.off += offset
	}
	return w.off, nil
}

// RandomBytes returns n pseudo-random bytes derived deterministically from seed.
func RandomBytes(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(r.UintN(256))
	}
	return buf
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"io"
	"testing"
)

func TestSeekBuffer(t *testing.T) {
	t.Parallel()

	b := NewSeekBuffer([]byte("runtime"))
	if _, err := b.Seek(0, io.SeekEnd); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if _, err := b.Write([]byte("+manifest")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := string(b.Bytes()); got != "runtime+manifest" {
		t.Errorf("Bytes() = %q, want %q", got, "runtime+manifest")
	}

	if _, err := b.Seek(-8, io.SeekEnd); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	got, err := io.ReadAll(b)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "manifest" {
		t.Errorf("read %q, want %q", got, "manifest")
	}

	if _, err := b.Seek(-100, io.SeekEnd); err == nil {
		t.Error("Seek() to a negative position should fail")
	}
}

func TestSeekBufferWritePastEnd(t *testing.T) {
	t.Parallel()

	b := NewSeekBuffer(nil)
	if _, err := b.Seek(3, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if _, err := b.Write([]byte{7}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.Equal(b.Bytes(), []byte{0, 0, 0, 7}) {
		t.Errorf("Bytes() = %v, want [0 0 0 7]", b.Bytes())
	}
}

func TestRandomBytesDeterministic(t *testing.T) {
	t.Parallel()

	a, b := RandomBytes(64, 42), RandomBytes(64, 42)
	if !bytes.Equal(a, b) {
		t.Error("RandomBytes() with the same seed should be deterministic")
	}
	if bytes.Equal(a, RandomBytes(64, 43)) {
		t.Error("RandomBytes() with different seeds should differ")
	}
}

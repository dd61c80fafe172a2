// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gowebpki/jcs"
)

var (
	// ErrMissingField is returned by Unmarshal when a required wire field is
	// absent or null.
	ErrMissingField = errors.New("missing required field")
	// ErrNotUTF8 is returned when a manifest string cannot be represented in
	// the UTF-8 wire encoding.
	ErrNotUTF8 = errors.New("string is not valid UTF-8")
)

type (
	// wireManifest is the encoding-side shape: nil collections are written
	// as empty ones so that decoders never observe null.
	wireManifest struct {
		Argv []string          `json:"argv"`
		Env  map[string]string `json:"env"`
	}

	// strictManifest is the decoding-side shape: pointers let Unmarshal
	// tell an absent field apart from an empty one.
	strictManifest struct {
		Argv *[]string          `json:"argv"`
		Env  *map[string]string `json:"env"`
	}
)

// MarshalCanonical encodes the manifest in its wire form: a JSON object
// canonicalised per RFC 8785, so equal manifests always produce equal bytes.
func (m *Manifest) MarshalCanonical() ([]byte, error) {
	if m == nil {
		return nil, errors.New("cannot encode a nil manifest")
	}
	if err := m.checkUTF8(); err != nil {
		return nil, err
	}

	w := wireManifest{Argv: m.Argv, Env: m.Env}
	if w.Argv == nil {
		w.Argv = []string{}
	}
	if w.Env == nil {
		w.Env = map[string]string{}
	}

	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize manifest: %w", err)
	}
	return canonical, nil
}

// Unmarshal decodes a manifest from its wire form. Both "argv" and "env"
// must be present; unknown fields are ignored.
func Unmarshal(data []byte) (*Manifest, error) {
	var w strictManifest
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if w.Argv == nil {
		return nil, fmt.Errorf("decode manifest: %w: argv", ErrMissingField)
	}
	if w.Env == nil {
		return nil, fmt.Errorf("decode manifest: %w: env", ErrMissingField)
	}
	return &Manifest{Argv: *w.Argv, Env: *w.Env}, nil
}

func (m *Manifest) checkUTF8() error {
	for i, arg := range m.Argv {
		if !utf8.ValidString(arg) {
			return fmt.Errorf("argv[%d]: %w", i, ErrNotUTF8)
		}
	}
	for k, v := range m.Env {
		if !utf8.ValidString(k) {
			return fmt.Errorf("env name %q: %w", k, ErrNotUTF8)
		}
		if !utf8.ValidString(v) {
			return fmt.Errorf("env[%q]: %w", k, ErrNotUTF8)
		}
	}
	return nil
}

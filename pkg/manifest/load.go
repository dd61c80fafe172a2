// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"github.com/pelletier/go-toml/v2"

	"github.com/nimbus-build/kickoff/pkg/cueutil"
)

const (
	// FormatJSON is a manifest authored as JSON (the same shape as the wire form).
	FormatJSON Format = "json"
	// FormatTOML is a manifest authored as TOML.
	FormatTOML Format = "toml"
	// FormatCUE is a manifest authored as CUE.
	FormatCUE Format = "cue"

	// MaxFileSize bounds the size of authored manifest files.
	MaxFileSize = 1 << 20
)

var (
	// ErrUnknownFormat is returned when a manifest file extension is not recognized.
	ErrUnknownFormat = errors.New("unknown manifest format")
	// ErrFileTooLarge is returned when a manifest file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("manifest file too large")
	// ErrSchemaViolation is returned when an authored manifest does not match its schema.
	ErrSchemaViolation = errors.New("manifest does not match schema")

	//go:embed manifest.schema.json
	jsonSchemaSource []byte

	//go:embed manifest_schema.cue
	cueSchemaSource string

	compileJSONSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		compiler := jsonschema.NewCompiler()
		return compiler.Compile(jsonSchemaSource)
	})
)

// Format identifies the authoring format of a manifest file.
type Format string

// FormatFromPath infers the manifest format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .json, .toml or .cue)", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads, parses and validates an authored manifest file.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, path, len(data), MaxFileSize)
	}

	return Parse(data, format, path)
}

// Parse decodes and validates an authored manifest. The filename is only
// used in diagnostics.
func Parse(data []byte, format Format, filename string) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)

	switch format {
	case FormatJSON:
		m, err = parseJSON(data)
	case FormatTOML:
		m, err = parseTOML(data)
	case FormatCUE:
		m, err = parseCUE(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if m.Env == nil {
		m.Env = make(map[string]string)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseJSON(data []byte) (*Manifest, error) {
	schema, err := compileJSONSchema()
	if err != nil {
		return nil, fmt.Errorf("internal error: failed to compile manifest schema: %w", err)
	}

	result := schema.ValidateJSON(data)
	if !result.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, result.Errors)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse JSON manifest: %w", err)
	}
	return &m, nil
}

func parseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse TOML manifest: %w", err)
	}
	return &m, nil
}

func parseCUE(data []byte, filename string) (*Manifest, error) {
	res, err := cueutil.ParseAndDecodeString[Manifest](cueSchemaSource, data, "#Manifest",
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(MaxFileSize),
	)
	if err != nil {
		if errors.Is(err, cueutil.ErrSchemaMismatch) {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
		return nil, fmt.Errorf("parse CUE manifest: %w", err)
	}
	return res.Value, nil
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"testing"
)

func TestNewCopiesInputs(t *testing.T) {
	t.Parallel()

	argv := []string{"foo", "bar"}
	env := map[string]string{"SOME_KEY": "some-value"}

	m := New(argv, env)
	argv[0] = "changed"
	env["SOME_KEY"] = "changed"

	if m.Argv[0] != "foo" {
		t.Errorf("Argv[0] = %q, want %q", m.Argv[0], "foo")
	}
	if m.Env["SOME_KEY"] != "some-value" {
		t.Errorf("Env[SOME_KEY] = %q, want %q", m.Env["SOME_KEY"], "some-value")
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		manifest   *Manifest
		wantErrs   int
		wantErrNil bool
	}{
		{
			name:       "program with args and env",
			manifest:   New([]string{"/usr/bin/env", "python3"}, map[string]string{"PYTHONPATH": "{kickoff.self.dir}"}),
			wantErrNil: true,
		},
		{
			name:       "program only",
			manifest:   New([]string{"foo"}, nil),
			wantErrNil: true,
		},
		{
			name:     "nil manifest",
			manifest: nil,
			wantErrs: 1,
		},
		{
			name:     "empty argv",
			manifest: New(nil, nil),
			wantErrs: 1,
		},
		{
			name:     "empty program",
			manifest: New([]string{"", "arg"}, nil),
			wantErrs: 1,
		},
		{
			name:     "NUL in argument",
			manifest: New([]string{"foo", "a\x00b"}, nil),
			wantErrs: 1,
		},
		{
			name:     "empty env name",
			manifest: New([]string{"foo"}, map[string]string{"": "x"}),
			wantErrs: 1,
		},
		{
			name:     "env name with equals",
			manifest: New([]string{"foo"}, map[string]string{"A=B": "x"}),
			wantErrs: 1,
		},
		{
			name:     "NUL in env value",
			manifest: New([]string{"foo"}, map[string]string{"A": "x\x00"}),
			wantErrs: 1,
		},
		{
			name:     "invalid UTF-8 argument",
			manifest: New([]string{"foo", string([]byte{0xC3, 0x28})}, nil),
			wantErrs: 1,
		},
		{
			name:     "several problems are all reported",
			manifest: New([]string{"", "a\x00"}, map[string]string{"=C:": "x"}),
			wantErrs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.manifest.Validate()
			if tt.wantErrNil {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("error should wrap ErrInvalidManifest, got: %v", err)
			}
			var invalid *InvalidManifestError
			if !errors.As(err, &invalid) {
				t.Fatalf("error should be *InvalidManifestError, got: %T", err)
			}
			if len(invalid.FieldErrors) != tt.wantErrs {
				t.Errorf("got %d field errors (%v), want %d", len(invalid.FieldErrors), invalid.FieldErrors, tt.wantErrs)
			}
		})
	}
}

func TestManifestEqual(t *testing.T) {
	t.Parallel()

	base := New([]string{"foo", "bar"}, map[string]string{"SOME_KEY": "some-value"})

	tests := []struct {
		name  string
		other *Manifest
		want  bool
	}{
		{"same content", New([]string{"foo", "bar"}, map[string]string{"SOME_KEY": "some-value"}), true},
		{"argv order matters", New([]string{"bar", "foo"}, map[string]string{"SOME_KEY": "some-value"}), false},
		{"different env value", New([]string{"foo", "bar"}, map[string]string{"SOME_KEY": "other"}), false},
		{"missing env", New([]string{"foo", "bar"}, nil), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	if !(&Manifest{Argv: []string{"x"}}).Equal(&Manifest{Argv: []string{"x"}, Env: map[string]string{}}) {
		t.Error("nil and empty env should compare equal")
	}
}

func TestManifestClone(t *testing.T) {
	t.Parallel()

	m := New([]string{"foo"}, map[string]string{"A": "1"})
	c := m.Clone()
	c.Argv[0] = "bar"
	c.Env["A"] = "2"

	if m.Argv[0] != "foo" || m.Env["A"] != "1" {
		t.Errorf("Clone() shares state with the original: %+v", m)
	}
	if (*Manifest)(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestManifestProgram(t *testing.T) {
	t.Parallel()

	if got := New([]string{"/bin/true", "x"}, nil).Program(); got != "/bin/true" {
		t.Errorf("Program() = %q, want %q", got, "/bin/true")
	}
	if got := New(nil, nil).Program(); got != "" {
		t.Errorf("Program() = %q, want empty", got)
	}
}

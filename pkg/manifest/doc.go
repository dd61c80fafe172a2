// SPDX-License-Identifier: MPL-2.0

// Package manifest defines the invocation descriptor stored inside every
// kickoff-produced binary.
//
// A Manifest records the argument vector and the environment overrides of the
// program a produced binary launches. The wire form embedded in binaries is a
// canonical (RFC 8785) JSON object with the fields "argv" and "env". The
// packaging tool additionally accepts manifests authored as JSON, TOML or CUE
// files; see Load.
package manifest

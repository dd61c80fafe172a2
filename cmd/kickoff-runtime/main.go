// SPDX-License-Identifier: MPL-2.0

// Command kickoff-runtime is the stub every launcher binary starts with.
// It is not meant to be run directly: the packager appends a manifest to a
// copy of it, and on startup it executes the program that manifest names.
package main

import (
	"os"

	"github.com/nimbus-build/kickoff/internal/entrypoint"
)

func main() {
	os.Exit(int(entrypoint.New().Run()))
}

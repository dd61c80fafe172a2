// SPDX-License-Identifier: MPL-2.0

// Package entrypoint is the main routine of the runtime stub. It reads the
// manifest appended to its own binary, expands the built-in tokens, merges
// the invocation with the caller's arguments and environment, and replaces
// the process with the target program.
package entrypoint

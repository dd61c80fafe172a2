// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by kickoff tests: environment
// variable management (MustSetenv, MustUnsetenv, SetHomeDir) and in-memory
// I/O fixtures (SeekBuffer, FailingWriter, RandomBytes) for exercising the
// binary layout code.
package testutil

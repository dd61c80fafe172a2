// SPDX-License-Identifier: MPL-2.0

// Package issue describes failures the way kickoff shows them to users.
//
// ActionableError names the failed operation, the file involved and hints
// for fixing it. The catalog adds a longer Markdown explanation for known
// failures, such as a missing runtime stub or a file without a kickoff
// trailer, rendered in the terminal with glamour.
package issue

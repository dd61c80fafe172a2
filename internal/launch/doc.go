// SPDX-License-Identifier: MPL-2.0

// Package launch replaces the current process with a target program.
//
// MergeArgs and MergeEnv combine a manifest's invocation with the caller's
// live arguments and environment. Exec hands the result to the operating
// system. On Unix systems the strings are passed as NUL-terminated UTF-8
// through execve(2). On Windows they are converted to NUL-terminated UTF-16
// and passed to the C runtime's _wexecve. Exec never returns on success.
package launch

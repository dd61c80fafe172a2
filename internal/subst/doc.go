// SPDX-License-Identifier: MPL-2.0

// Package subst expands placeholder tokens in manifest strings.
//
// A Rule maps a string to a string. Apply runs a list of rules in order over
// an input; inputs that are not valid UTF-8 pass through untouched. The
// built-in rules replace {kickoff.self.path} with the absolute path of the
// running binary and {kickoff.self.dir} with its parent directory.
package subst

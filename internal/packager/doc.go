// SPDX-License-Identifier: MPL-2.0

// Package packager produces launcher binaries: a runtime stub followed by
// a manifest and the trailer that locates both.
package packager

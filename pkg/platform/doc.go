// SPDX-License-Identifier: MPL-2.0

// Package platform describes the targets a launcher can be built for.
//
// A target is identified by a triple such as "x86_64-unknown-linux-gnu".
// Each one maps to the runtime stub file that must prefix launchers for it.
// The package also carries small cross-platform helpers, such as the
// Windows reserved file name check applied to launcher output names.
package platform

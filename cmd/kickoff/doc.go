// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands of kickoff: creating launchers from a
// runtime stub and a manifest, inspecting existing launchers, listing
// supported targets and managing the configuration file.
package cmd

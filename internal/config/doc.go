// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/kickoff/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/kickoff/config.cue on macOS, %APPDATA%\kickoff\config.cue
// on Windows). Every key can be overridden with a KICKOFF_* environment variable, for
// example KICKOFF_OUTPUT_ATOMIC=true or KICKOFF_DEFAULT_TARGET=x86_64-unknown-linux-gnu.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config

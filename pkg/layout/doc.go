// SPDX-License-Identifier: MPL-2.0

// Package layout encodes and decodes the on-disk format of kickoff-produced
// binaries.
//
// A produced binary is laid out as
//
//	[runtime stub][manifest JSON][trailer]
//
// The trailer is a fixed 40-byte record occupying the last bytes of the file:
// the 8-byte magic "k1ck0ff!" followed by four native-endian uint64 values
// (runtime.pos, runtime.len, manifest.pos, manifest.len). Because the trailer
// is addressed from the end of the file, the same runtime stub can be reused
// unmodified for any number of manifests; packaging only appends bytes.
//
// The magic number is the sole integrity gate: no checksum or version is
// recorded.
package layout

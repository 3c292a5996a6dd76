// Package protocol implements the binary wire format for trees and patch
// lists.
//
// A session starts with a tree frame carrying the mounted tree and then
// streams one patch frame per update. Patch lists are applied in order, so a
// frame is either decoded completely or rejected; unknown ops are errors.
//
// # Wire Format
//
// All messages are framed with a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameTree (0x01): Full tree
//   - FramePatches (0x02): Patch list
//   - FrameError (0x05): Error message
//
// # Encoding
//
//   - Varint: Compact encoding for counts, indices and handler tokens
//   - Length-prefixed: Strings prefixed with varint length
//   - Paths: varint depth followed by one varint per child index
//   - Values: kind byte followed by the kind's payload
//
// Example ChangeText patch encoding:
//
//	[Op: 0x08][Path: 0x02 0x00 0x03][Text: len-prefixed]
//
// # Limits
//
// Decoding enforces DefaultMaxAllocation for strings, MaxCollectionCount for
// counts and MaxVNodeDepth for nesting, so hostile input fails fast instead
// of exhausting memory or stack.
package protocol

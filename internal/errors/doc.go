// Package errors provides structured, actionable error messages for vdiff.
//
// Every error carries a registered code, a category and a plain-language
// explanation. Errors raised while applying a patch list name the failing
// patch; errors about input files can point at a line and column.
//
// # Error Categories
//
//   - apply (E1xx): a patch list does not fit the live structure
//   - protocol (E2xx): frames or payloads that cannot be decoded
//   - config (E3xx): vdiff.json problems
//   - cli (E4xx): unreadable input, unparsable HTML, bad flags
//   - store (E5xx): frame archive failures
//
// # Usage
//
//	err := errors.New(errors.CodeAnchorMismatch).
//	    WithPatch(3, patch).
//	    WithDetailf("expected key %q at index %d", key, idx)
//
//	errors.PrintError(err)
//	// ERROR E103: Insertion anchor does not match
//	//
//	//   patch 3: InsertBefore /0 before=2 key="b" nodes=1
//	//
//	//   expected key "b" at index 2
package errors

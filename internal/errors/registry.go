package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Error codes used across the module.
const (
	CodeMissingNode      = "E101"
	CodeNotElement       = "E102"
	CodeAnchorMismatch   = "E103"
	CodeMoveKeyMismatch  = "E104"
	CodeUnknownPatchOp   = "E105"
	CodeIndexOutOfRange  = "E106"
	CodeNotMounted       = "E107"
	CodeNotText          = "E108"
	CodeInvalidFrame     = "E201"
	CodeDecodeFailed     = "E202"
	CodeUnexpectedFrame  = "E203"
	CodeConfigParse      = "E301"
	CodeConfigInvalid    = "E302"
	CodeConfigWrite      = "E303"
	CodeInputUnreadable  = "E401"
	CodeHTMLParse        = "E402"
	CodeUnknownFormat    = "E403"
	CodeApplyMismatch    = "E404"
	CodeStoreWrite       = "E501"
	CodeStoreRead        = "E502"
	CodeObjectNotFound   = "E503"
	CodeUnknownStoreKind = "E504"
	CodeStoreSetup       = "E505"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Apply Errors (E100-E199)
	// ============================================

	CodeMissingNode: {
		Category: CategoryApply,
		Message:  "No live node at patch path",
		Detail:   "The patch addresses a position that does not exist in the live structure. The patch list was computed against a different tree or an earlier patch failed.",
	},
	CodeNotElement: {
		Category: CategoryApply,
		Message:  "Patch target is not an element",
		Detail:   "Attribute and child patches need an element (or the mount container) at their path.",
	},
	CodeAnchorMismatch: {
		Category: CategoryApply,
		Message:  "Insertion anchor does not match",
		Detail:   "The node at the anchor index does not carry the anchor key, so the live children are out of step with the patch list.",
	},
	CodeMoveKeyMismatch: {
		Category: CategoryApply,
		Message:  "Moved node does not match the expected key",
		Detail:   "The node at the move source index does not carry the key recorded in the patch.",
	},
	CodeUnknownPatchOp: {
		Category: CategoryApply,
		Message:  "Unknown patch operation",
		Detail:   "Patch lists are order-dependent, so an unknown operation stops application.",
	},
	CodeIndexOutOfRange: {
		Category: CategoryApply,
		Message:  "Child index out of range",
		Detail:   "A move or anchor index lies outside the live child list.",
	},
	CodeNotMounted: {
		Category: CategoryApply,
		Message:  "Document is not mounted",
		Detail:   "Mount a tree before applying patches.",
	},
	CodeNotText: {
		Category: CategoryApply,
		Message:  "Patch target is not a text node",
		Detail:   "ChangeText needs a text or comment node at its path.",
	},

	// ============================================
	// Protocol Errors (E200-E299)
	// ============================================

	CodeInvalidFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame header is truncated, has an unknown type or announces a payload beyond the size limit.",
	},
	CodeDecodeFailed: {
		Category: CategoryProtocol,
		Message:  "Payload could not be decoded",
		Detail:   "The payload is truncated, exceeds a decoding limit or contains an unknown node kind or patch op.",
	},
	CodeUnexpectedFrame: {
		Category: CategoryProtocol,
		Message:  "Unexpected frame type",
		Detail:   "The frame type is valid but not expected at this point in the session.",
	},

	// ============================================
	// Config Errors (E300-E399)
	// ============================================

	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
		Detail:   "vdiff.json must be a single JSON object.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	CodeConfigWrite: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be written",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	CodeInputUnreadable: {
		Category: CategoryCLI,
		Message:  "Input file could not be read",
	},
	CodeHTMLParse: {
		Category: CategoryCLI,
		Message:  "HTML could not be parsed",
	},
	CodeUnknownFormat: {
		Category: CategoryCLI,
		Message:  "Unknown output format",
		Detail:   "Supported formats are text, json and binary.",
	},
	CodeApplyMismatch: {
		Category: CategoryCLI,
		Message:  "Applied result does not match the new tree",
		Detail:   "Applying the computed patches to the old document produced different markup than the new document.",
	},

	// ============================================
	// Store Errors (E500-E599)
	// ============================================

	CodeStoreWrite: {
		Category: CategoryStore,
		Message:  "Frame could not be archived",
	},
	CodeStoreRead: {
		Category: CategoryStore,
		Message:  "Archived frame could not be read",
	},
	CodeObjectNotFound: {
		Category: CategoryStore,
		Message:  "Archived frame not found",
	},
	CodeUnknownStoreKind: {
		Category: CategoryStore,
		Message:  "Unknown store kind",
		Detail:   `store.kind must be "dir" or "s3".`,
	},
	CodeStoreSetup: {
		Category: CategoryStore,
		Message:  "Store could not be initialized",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

package protocol

import "errors"

// Depth limits to prevent stack overflow attacks via deeply nested structures.
// These limits complement the allocation limits in decoder.go.
const (
	// MaxVNodeDepth limits the maximum nesting depth of decoded trees.
	// 256 levels is sufficient for any reasonable document.
	MaxVNodeDepth = 256

	// MaxPathDepth limits the length of a decoded path. A path can never be
	// longer than the tree it addresses is deep.
	MaxPathDepth = MaxVNodeDepth
)

// ErrMaxDepthExceeded is returned when a decoded structure nests deeper than
// the configured limit.
var ErrMaxDepthExceeded = errors.New("protocol: maximum depth exceeded")

// checkDepth is a convenience function for one-time depth checks.
func checkDepth(current, max int) error {
	if current > max {
		return ErrMaxDepthExceeded
	}
	return nil
}

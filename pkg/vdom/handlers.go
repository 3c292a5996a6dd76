package vdom

import (
	"fmt"
	"sync"
)

// HandlerRef is an opaque token identifying a registered event handler.
// Two references are the same handler exactly when the tokens are equal; the
// callback itself is never compared. The zero value is not a valid handler.
type HandlerRef uint64

// String returns the token form (e.g., "h12").
func (h HandlerRef) String() string {
	return fmt.Sprintf("h%d", uint64(h))
}

// HandlerRegistry assigns HandlerRefs to callbacks and resolves them back.
// It is safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.Mutex
	counter  uint64
	handlers map[HandlerRef]any
}

// NewHandlerRegistry creates a new HandlerRegistry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[HandlerRef]any)}
}

// Register stores fn and returns a fresh reference for it. Registering the
// same function twice yields two distinct references.
func (r *HandlerRegistry) Register(fn any) HandlerRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	ref := HandlerRef(r.counter)
	r.handlers[ref] = fn
	return ref
}

// Lookup returns the callback registered under ref.
func (r *HandlerRegistry) Lookup(ref HandlerRef) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.handlers[ref]
	return fn, ok
}

// Release forgets ref. Releasing an unknown reference is a no-op.
func (r *HandlerRegistry) Release(ref HandlerRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, ref)
}

// Len returns the number of live registrations.
func (r *HandlerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Current returns the last issued reference, or 0 if none was issued.
func (r *HandlerRegistry) Current() HandlerRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return HandlerRef(r.counter)
}

// CollectHandlers returns every handler reference bound in the tree, keyed by
// the path of its element and the attribute name ("onclick").
func CollectHandlers(root *VNode) map[string]HandlerRef {
	result := make(map[string]HandlerRef)
	Walk(root, func(n *VNode, path Path) bool {
		if n.Kind != KindElement {
			return true
		}
		for _, a := range n.Attrs {
			if a.Value.Kind == ValueHandler {
				result[path.String()+"#"+a.Name] = a.Value.Handler
			}
		}
		return true
	})
	return result
}

// CountInteractive returns the number of elements with handlers in the tree.
func CountInteractive(root *VNode) int {
	count := 0
	Walk(root, func(n *VNode, _ Path) bool {
		if n.IsInteractive() {
			count++
		}
		return true
	})
	return count
}

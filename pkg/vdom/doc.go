// Package vdom provides the virtual DOM tree and the reconciliation engine.
//
// A tree of VNode values describes a UI. Diff compares the tree that is
// currently rendered with a new one and returns an ordered list of Patch
// operations that turn the rendered form of the first into the second,
// without rebuilding subtrees that did not change.
//
// # Core Types
//
// VNode is the building block for elements, text, comments and fragments.
// Attributes are an ordered []Attr whose values are typed (Value): strings,
// numbers, booleans, lists (class, style) and handler references. Handlers
// are HandlerRef tokens handed out by a HandlerRegistry and compare by
// identity.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(ref),
//	)
//
// # Diffing
//
// Children that carry keys (Key) are matched by key; the others by position.
// Matched children that keep their relative order are left in place and the
// rest are moved, so reordering n keyed rows costs at most n-1 moves.
//
// Patches address nodes by Path. Each path is valid against the live
// structure after every earlier patch of the same list has been applied, so
// the list must be applied in order.
//
// Diff is pure: it does no I/O, takes no locks and never modifies its input.
package vdom

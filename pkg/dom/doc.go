// Package dom applies patch lists to a live HTML structure and parses HTML
// into trees.
//
// A Document plays the part of the browser: it holds *html.Node content for
// a mounted tree and the handler bindings of its elements, and Apply replays
// a patch list against it exactly as a client would. Together with Parse it
// closes the loop that the diff engine promises: for any two trees,
// mounting the first and applying Diff(first, second) yields the rendering
// of the second.
//
//	doc := dom.NewDocument()
//	doc.Mount(prev)
//	if err := doc.Apply(vdom.Diff(prev, next)); err != nil {
//	    // *errors.Error with an E1xx code naming the failing patch
//	}
//
// Keys live in the data-key attribute of live elements, which is how anchor
// and move keys are checked while applying.
package dom

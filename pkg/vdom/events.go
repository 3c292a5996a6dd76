package vdom

import "strings"

// event binds a handler reference to the named event.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, h HandlerRef) Attr {
	return Attr{Name: "on" + name, Value: Handler(h)}
}

// On binds h to an arbitrary event.
func On(name string, h HandlerRef) Attr { return event(name, h) }

// EventName returns the event an attribute name binds ("onclick" → "click"),
// or "" if the name is not an event binding.
func EventName(attr string) string {
	if len(attr) > 2 && strings.HasPrefix(attr, "on") {
		return attr[2:]
	}
	return ""
}

// Mouse events

// OnClick handles click events.
func OnClick(h HandlerRef) Attr { return event("click", h) }

// OnDblClick handles double-click events.
func OnDblClick(h HandlerRef) Attr { return event("dblclick", h) }

// OnMouseDown handles mousedown events.
func OnMouseDown(h HandlerRef) Attr { return event("mousedown", h) }

// OnMouseUp handles mouseup events.
func OnMouseUp(h HandlerRef) Attr { return event("mouseup", h) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(h HandlerRef) Attr { return event("mouseenter", h) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(h HandlerRef) Attr { return event("mouseleave", h) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(h HandlerRef) Attr { return event("keydown", h) }

// OnKeyUp handles keyup events.
func OnKeyUp(h HandlerRef) Attr { return event("keyup", h) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(h HandlerRef) Attr { return event("input", h) }

// OnChange handles change events (fired when value is committed).
func OnChange(h HandlerRef) Attr { return event("change", h) }

// OnSubmit handles form submit events.
func OnSubmit(h HandlerRef) Attr { return event("submit", h) }

// OnFocus handles focus events.
func OnFocus(h HandlerRef) Attr { return event("focus", h) }

// OnBlur handles blur events.
func OnBlur(h HandlerRef) Attr { return event("blur", h) }

package vdom

import (
	"sort"
	"strings"
)

// Attr represents a single attribute or handler binding on an element.
type Attr struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Name == ""
}

// attr creates an Attr with the given name and value.
func attr(name string, value any) Attr {
	return Attr{Name: name, Value: ValueOf(value)}
}

// AttrOf creates an arbitrary attribute. The value is converted with ValueOf.
func AttrOf(name string, value any) Attr { return attr(name, value) }

// mergeable reports whether repeated declarations of name accumulate into a
// list instead of replacing each other.
func mergeable(name string) bool {
	return name == "class" || name == "style"
}

// setAttr adds a to attrs, merging with an existing declaration of the same
// name. class and style (and any list value) accumulate; other names keep the
// last declaration in the position of the first.
func setAttr(attrs []Attr, a Attr) []Attr {
	for i := range attrs {
		if attrs[i].Name != a.Name {
			continue
		}
		prev := attrs[i].Value
		if (mergeable(a.Name) || prev.Kind == ValueList || a.Value.Kind == ValueList) &&
			prev.Kind != ValueHandler && a.Value.Kind != ValueHandler {
			attrs[i].Value = mergeValues(prev, a.Value)
		} else {
			attrs[i].Value = a.Value
		}
		return attrs
	}
	return append(attrs, a)
}

func mergeValues(a, b Value) Value {
	items := make([]string, 0, 4)
	items = appendItems(items, a)
	items = appendItems(items, b)
	return List(items...)
}

func appendItems(items []string, v Value) []string {
	switch v.Kind {
	case ValueList:
		return append(items, v.List...)
	case ValueBool:
		if !v.Bool {
			return items
		}
	}
	return append(items, v.String())
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class adds classes. Repeated Class attributes on one element merge.
func Class(classes ...string) Attr { return Attr{Name: "class", Value: List(classes...)} }

// StyleAttr adds style declarations (named to avoid conflict with Style element).
// Repeated StyleAttr attributes on one element merge.
func StyleAttr(decls ...string) Attr { return Attr{Name: "style", Value: List(decls...)} }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", strBool(hidden)) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr { return attr("aria-expanded", strBool(expanded)) }

// AriaSelected sets the aria-selected attribute.
func AriaSelected(selected bool) Attr { return attr("aria-selected", strBool(selected)) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// ValueAttr sets the value attribute.
func ValueAttr(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Checked sets the checked attribute.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Selected sets the selected attribute.
func Selected(selected bool) Attr { return attr("selected", selected) }

// Readonly sets the readonly attribute.
func Readonly() Attr { return attr("readonly", true) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Table attributes

// Colspan sets the colspan attribute.
func Colspan(n int) Attr { return attr("colspan", n) }

// Rowspan sets the rowspan attribute.
func Rowspan(n int) Attr { return attr("rowspan", n) }

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{} // Empty attr, will be ignored
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool. Map entries are added in
// sorted order so the result is deterministic.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			result = append(result, strings.Fields(v)...)
		case []string:
			result = append(result, v...)
		case map[string]bool:
			for _, class := range sortedKeys(v) {
				if v[class] {
					result = append(result, class)
				}
			}
		}
	}
	return Class(result...)
}

func strBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package vdom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates attribute values.
type ValueKind uint8

const (
	ValueString  ValueKind = iota // "card"
	ValueNumber                   // 3, 0.5
	ValueBool                     // disabled, checked
	ValueList                     // class lists, style declarations
	ValueHandler                  // event handler reference
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueHandler:
		return "handler"
	default:
		return "unknown"
	}
}

// Value is an attribute value. Exactly one of the payload fields is meaningful,
// selected by Kind.
type Value struct {
	Kind    ValueKind
	Str     string
	Num     float64
	Bool    bool
	List    []string
	Handler HandlerRef
}

// String builds a string value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Number builds a numeric value.
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// Int builds a numeric value from an int.
func Int(n int) Value { return Number(float64(n)) }

// Bool builds a boolean value. A false boolean attribute renders as absent.
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// List builds a list value. Empty items are dropped.
func List(items ...string) Value {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return Value{Kind: ValueList, List: out}
}

// Handler builds a handler reference value.
func Handler(h HandlerRef) Value { return Value{Kind: ValueHandler, Handler: h} }

// ValueOf converts a Go value into an attribute Value. Unsupported types are
// formatted with %v.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case uint:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case float32:
		return Number(float64(val))
	case float64:
		return Number(val)
	case []string:
		return List(val...)
	case HandlerRef:
		return Handler(val)
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// Equal compares two values. Handlers compare by identity; everything else by
// value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueString:
		return v.Str == o.Str
	case ValueNumber:
		return v.Num == o.Num
	case ValueBool:
		return v.Bool == o.Bool
	case ValueList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	case ValueHandler:
		return v.Handler == o.Handler
	}
	return false
}

// String returns the text form of the value as it would appear in markup.
// List items are joined with a space; handlers render as their token.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueList:
		return strings.Join(v.List, " ")
	case ValueHandler:
		return v.Handler.String()
	default:
		return ""
	}
}

// IsHandler reports whether the value is an event handler reference.
func (v Value) IsHandler() bool {
	return v.Kind == ValueHandler
}

// valueJSON is the serialized shape of a Value.
type valueJSON struct {
	Kind    string   `json:"kind"`
	Str     string   `json:"str,omitempty"`
	Num     float64  `json:"num,omitempty"`
	Bool    bool     `json:"bool,omitempty"`
	List    []string `json:"list,omitempty"`
	Handler uint64   `json:"handler,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{
		Kind:    v.Kind.String(),
		Str:     v.Str,
		Num:     v.Num,
		Bool:    v.Bool,
		List:    v.List,
		Handler: uint64(v.Handler),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "string":
		*v = String(w.Str)
	case "number":
		*v = Number(w.Num)
	case "bool":
		*v = Bool(w.Bool)
	case "list":
		*v = Value{Kind: ValueList, List: w.List}
	case "handler":
		*v = Handler(HandlerRef(w.Handler))
	default:
		return fmt.Errorf("vdom: unknown value kind %q", w.Kind)
	}
	return nil
}

// Markup returns the attribute text for an attribute called name carrying v,
// and whether the attribute is present at all. A false boolean is absent, a
// true boolean is the empty string, style lists join with "; " and other lists
// with a space. Handlers have no markup form and report absent.
func (v Value) Markup(name string) (string, bool) {
	switch v.Kind {
	case ValueBool:
		if !v.Bool {
			return "", false
		}
		return "", true
	case ValueHandler:
		return "", false
	case ValueList:
		if name == "style" {
			return strings.Join(v.List, "; "), true
		}
		return strings.Join(v.List, " "), true
	default:
		return v.String(), true
	}
}

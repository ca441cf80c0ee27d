// Package form holds the field values of a single wizard instance.
//
// A State is an immutable value: Apply returns a new State and leaves the
// receiver untouched. Values are either text or booleans; boolean flags that
// belong together (booking add-ons) live in a named group so one flag can be
// toggled without touching its siblings.
package form

import "sort"

// Kind distinguishes the two value shapes a field can hold.
type Kind int

const (
	KindText Kind = iota
	KindBool
)

// Value is a text or boolean field value.
type Value struct {
	kind Kind
	text string
	b    bool
}

// Text wraps a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the value shape.
func (v Value) Kind() Kind { return v.kind }

// AsText returns the string value, or "" for a boolean.
func (v Value) AsText() string {
	if v.kind != KindText {
		return ""
	}
	return v.text
}

// AsBool returns the boolean value, or false for text.
func (v Value) AsBool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.b
}

// State is the full set of field values for one form instance.
// The zero value is an empty, usable State.
type State struct {
	fields map[string]Value
	groups map[string]map[string]bool
}

// New builds a State by applying updates to an empty one.
func New(updates ...Update) State {
	var s State
	for _, u := range updates {
		s = s.Apply(u)
	}
	return s
}

// Get returns the named field and whether it has been set.
func (s State) Get(name string) (Value, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// Text returns the named text field, "" when unset.
func (s State) Text(name string) string {
	return s.fields[name].AsText()
}

// Bool returns the named boolean field, false when unset.
func (s State) Bool(name string) bool {
	return s.fields[name].AsBool()
}

// Flag returns one flag inside a group, false when unset.
func (s State) Flag(group, flag string) bool {
	return s.groups[group][flag]
}

// Flags returns a copy of every flag in a group.
func (s State) Flags(group string) map[string]bool {
	out := make(map[string]bool, len(s.groups[group]))
	for k, v := range s.groups[group] {
		out[k] = v
	}
	return out
}

// Names returns the set field names in sorted order.
func (s State) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of s with u applied.
func (s State) Apply(u Update) State {
	if u == nil {
		return s
	}
	return u.apply(s)
}

// Map flattens the state into plain Go values: strings, booleans, and one
// map[string]bool per group.
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s.fields)+len(s.groups))
	for name, v := range s.fields {
		if v.kind == KindBool {
			out[name] = v.b
		} else {
			out[name] = v.text
		}
	}
	for group := range s.groups {
		out[group] = s.Flags(group)
	}
	return out
}

// FromMap is the inverse of Map. Strings and booleans become fields, nested
// maps of booleans become groups. Other value types are ignored.
func FromMap(m map[string]any) State {
	var s State
	for name, raw := range m {
		switch v := raw.(type) {
		case string:
			s = s.Apply(SetText{Field: name, Value: v})
		case bool:
			s = s.Apply(SetBool{Field: name, Value: v})
		case map[string]bool:
			for flag, on := range v {
				s = s.Apply(SetFlag{Group: name, Flag: flag, Value: on})
			}
		case map[string]any:
			for flag, inner := range v {
				if on, ok := inner.(bool); ok {
					s = s.Apply(SetFlag{Group: name, Flag: flag, Value: on})
				}
			}
		}
	}
	return s
}

// Merge returns a copy of s with every field and flag of o laid over it.
func (s State) Merge(o State) State {
	for name, v := range o.fields {
		s = s.withField(name, v)
	}
	for group, flags := range o.groups {
		for flag, on := range flags {
			s = s.withFlag(group, flag, on)
		}
	}
	return s
}

func (s State) withField(name string, v Value) State {
	fields := make(map[string]Value, len(s.fields)+1)
	for k, old := range s.fields {
		fields[k] = old
	}
	fields[name] = v
	return State{fields: fields, groups: s.groups}
}

func (s State) withFlag(group, flag string, on bool) State {
	groups := make(map[string]map[string]bool, len(s.groups)+1)
	for k, g := range s.groups {
		groups[k] = g
	}
	inner := make(map[string]bool, len(s.groups[group])+1)
	for k, v := range s.groups[group] {
		inner[k] = v
	}
	inner[flag] = on
	groups[group] = inner
	return State{fields: s.fields, groups: groups}
}

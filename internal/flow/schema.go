package flow

import "github.com/polaron/polaron/internal/form"

// FieldKind tells the presentation layer which input widget a field needs.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldChoice
	FieldToggle
	FieldFlag
	FieldLongText
)

// Option is one selectable value of a choice field.
type Option struct {
	Value string
	Label string
	Hint  string
}

// Field describes one input on a step.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Kind        FieldKind
	// Group is the flag group name for FieldFlag fields.
	Group    string
	Options  []Option
	MaxLen   int
	Optional bool
	// Masked values are echoed as bullets and only their last four
	// characters are shown in summaries.
	Masked bool
}

// Update builds the form update that stores a text value into this field.
func (f Field) Update(value string) form.Update {
	return form.SetText{Field: f.Name, Value: value}
}

// Toggle builds the update that flips this field's boolean value in s.
func (f Field) Toggle(s form.State) form.Update {
	if f.Kind == FieldFlag {
		return form.SetFlag{Group: f.Group, Flag: f.Name, Value: !s.Flag(f.Group, f.Name)}
	}
	return form.SetBool{Field: f.Name, Value: !s.Bool(f.Name)}
}

// Checked reports a toggle or flag field's value in s.
func (f Field) Checked(s form.State) bool {
	if f.Kind == FieldFlag {
		return s.Flag(f.Group, f.Name)
	}
	return s.Bool(f.Name)
}

// OptionLabel returns the label for value, or value itself when unknown.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Step is one page of a wizard.
type Step struct {
	Title  string
	Fields []Field
}

// Validator reports whether step is complete for s. It must be pure.
type Validator func(step int, s form.State) bool

// Definition is the static description of a flow.
type Definition struct {
	Name     string
	Steps    []Step
	Validate Validator
	// Initial seeds the form state of every new wizard.
	Initial form.State
	// Terminal marks flows whose confirmed state can never be discarded.
	Terminal bool
}

// Len returns the number of steps.
func (d Definition) Len() int { return len(d.Steps) }

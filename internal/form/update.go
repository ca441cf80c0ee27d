package form

// Update is one field change. The set of updates is closed: SetText,
// SetBool and SetFlag.
type Update interface {
	apply(State) State
}

// SetText sets a text field.
type SetText struct {
	Field string
	Value string
}

func (u SetText) apply(s State) State { return s.withField(u.Field, Text(u.Value)) }

// SetBool sets a top-level boolean field.
type SetBool struct {
	Field string
	Value bool
}

func (u SetBool) apply(s State) State { return s.withField(u.Field, Bool(u.Value)) }

// SetFlag sets one flag inside a group, leaving sibling flags as they are.
type SetFlag struct {
	Group string
	Flag  string
	Value bool
}

func (u SetFlag) apply(s State) State { return s.withFlag(u.Group, u.Flag, u.Value) }

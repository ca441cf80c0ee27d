package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/tui/theme"
)

func newInput(f flow.Field, width int) textinput.Model {
	t := theme.Current()
	in := textinput.New()
	in.Placeholder = f.Placeholder
	in.Prompt = ""
	if f.MaxLen > 0 {
		in.CharLimit = f.MaxLen
	}
	if f.Masked {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	in.SetWidth(width)
	return in
}

// hasInput reports whether a field is edited through a text input.
func hasInput(f flow.Field) bool {
	return f.Kind == flow.FieldText || f.Kind == flow.FieldLongText
}

// cycleChoice returns the option delta steps away from the current value,
// wrapping around. An unset value moves to the first option.
func cycleChoice(f flow.Field, s form.State, delta int) string {
	if len(f.Options) == 0 {
		return ""
	}
	cur := s.Text(f.Name)
	idx := -1
	for i, o := range f.Options {
		if o.Value == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return f.Options[0].Value
	}
	n := len(f.Options)
	return f.Options[((idx+delta)%n+n)%n].Value
}

// renderField draws one field with its label.
func renderField(f flow.Field, s form.State, in *textinput.Model, focused bool) string {
	st := theme.Current().S()

	label := st.Label.Render("  " + f.Label)
	if focused {
		label = st.LabelFocused.Render("▸ " + f.Label)
	}
	if f.Optional && f.Kind != flow.FieldToggle && f.Kind != flow.FieldFlag && !strings.Contains(f.Label, "Optional") {
		label += st.Muted.Render(" (optional)")
	}

	switch f.Kind {
	case flow.FieldToggle, flow.FieldFlag:
		box := "[ ]"
		if f.Checked(s) {
			box = "[x]"
		}
		line := box + " " + f.Label
		if focused {
			return st.LabelFocused.Render("▸ " + line)
		}
		return st.Value.Render("  " + line)

	case flow.FieldChoice:
		cur := s.Text(f.Name)
		opts := make([]string, 0, len(f.Options))
		var hint string
		for _, o := range f.Options {
			if o.Value == cur {
				opts = append(opts, st.StepCurrent.Render("● "+o.Label))
				hint = o.Hint
			} else {
				opts = append(opts, st.Muted.Render("○ "+o.Label))
			}
		}
		out := label + "\n    " + strings.Join(opts, "  ")
		if hint != "" {
			out += "\n    " + st.Hint.Render(hint)
		}
		return out

	default:
		view := ""
		if in != nil {
			view = in.View()
		}
		return label + "\n    " + view
	}
}

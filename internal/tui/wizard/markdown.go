package wizard

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
)

// RenderMarkdown renders markdown with glamour, falling back to the raw
// text when rendering fails.
func RenderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// ReviewMarkdown summarizes every filled-in field of def, one section per
// step that has fields.
func ReviewMarkdown(def flow.Definition, s form.State) string {
	var b strings.Builder
	for _, step := range def.Steps {
		var rows []string
		for _, f := range step.Fields {
			if v := displayValue(f, s); v != "" {
				rows = append(rows, fmt.Sprintf("- **%s:** %s", f.Label, v))
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", step.Title, strings.Join(rows, "\n"))
	}
	return strings.TrimSpace(b.String())
}

// displayValue is the human form of a field's value, "" when unset.
func displayValue(f flow.Field, s form.State) string {
	switch f.Kind {
	case flow.FieldToggle, flow.FieldFlag:
		if f.Checked(s) {
			return "yes"
		}
		return ""
	case flow.FieldChoice:
		if v := s.Text(f.Name); v != "" {
			return f.OptionLabel(v)
		}
		return ""
	case flow.FieldLongText:
		return strings.ReplaceAll(strings.TrimSpace(s.Text(f.Name)), "\n", " ")
	default:
		v := s.Text(f.Name)
		if f.Masked && v != "" {
			return mask(v)
		}
		return v
	}
}

// mask keeps the last four runes of v.
func mask(v string) string {
	r := []rune(v)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return "•••• " + string(r[len(r)-4:])
}

package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/tui/theme"
)

// renderProgress draws the step indicator, for example
// "✓ Route ─ ● Vehicle ─ ○ Shipping". Completed steps are those before
// current; the current step's marker shades from the primary to the
// secondary color as the flow advances.
func renderProgress(steps []flow.Step, current int) string {
	t := theme.Current()
	s := t.S()

	parts := make([]string, 0, len(steps))
	for i, step := range steps {
		n := i + 1
		switch {
		case n < current:
			parts = append(parts, s.StepDone.Render("✓ "+step.Title))
		case n == current:
			pos := 0.0
			if len(steps) > 1 {
				pos = float64(i) / float64(len(steps)-1)
			}
			color := theme.InterpolateColor(t.Primary, t.Secondary, pos)
			parts = append(parts, s.StepCurrent.Foreground(lipgloss.Color(color)).Render("● "+step.Title))
		default:
			parts = append(parts, s.StepPending.Render("○ "+step.Title))
		}
	}
	return strings.Join(parts, s.Muted.Render(" ─ "))
}

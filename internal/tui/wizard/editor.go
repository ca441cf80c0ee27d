package wizard

import (
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/polaron/polaron/internal/logger"
)

// EditorFinishedMsg carries the text saved in $EDITOR back to a field.
type EditorFinishedMsg struct {
	Field   string
	Content string
	Err     error
}

// openEditor launches the user's editor on a temp file seeded with value.
func openEditor(field, value string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "polaron_"+field+"_*.txt")
	if err != nil {
		logger.Warn("editor: temp file: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(value); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("polaron", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		logger.Warn("editor: %v", err)
		return nil
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return EditorFinishedMsg{Field: field, Err: err}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return EditorFinishedMsg{Field: field, Err: err}
		}
		return EditorFinishedMsg{Field: field, Content: strings.TrimRight(string(content), "\n")}
	})
}

// Package wizard renders a flow.Wizard as a full-screen terminal form.
//
// The model owns no flow semantics: navigation, validation and submission
// all go through the wizard, and the view is rebuilt from its state on every
// frame. Timer-driven phase changes reach the model as PhaseChangedMsg.
package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/submit"
	"github.com/polaron/polaron/internal/tui/theme"
)

// Action is an extra key offered once the flow is confirmed.
type Action struct {
	Key  string
	Desc string
}

// Config describes how one flow is presented.
type Config[T any] struct {
	Title string
	// ConfirmLabel is the primary button on the last step.
	ConfirmLabel string
	// Busy is shown next to the spinner while submitting.
	Busy string
	// Render turns the confirmation into markdown.
	Render func(T) string
	// Review adds markdown below the field summary on steps without fields.
	Review func(form.State) string
	// OnConfirmed runs once per confirmation, for example to publish it.
	OnConfirmed func(T) tea.Cmd
	Actions     []Action
}

// Model is the bubbletea model for one flow instance.
type Model[T any] struct {
	wiz *flow.Wizard[T]
	cfg Config[T]

	inputs  map[string]*textinput.Model
	focus   int
	spinner spinner.Model
	status  string
	phase   submit.Phase
	// announced is set once OnConfirmed ran for the current confirmation.
	announced bool
	sent      bool

	cancelled bool
	chosen    string
	quitting  bool
	width     int
	height    int
}

// New wraps wiz. The caller keeps ownership of wiz and closes it after the
// program exits.
func New[T any](wiz *flow.Wizard[T], cfg Config[T]) *Model[T] {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Confirm"
	}
	if cfg.Busy == "" {
		cfg.Busy = "Processing..."
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	m := &Model[T]{
		wiz:     wiz,
		cfg:     cfg,
		inputs:  make(map[string]*textinput.Model),
		spinner: s,
		phase:   wiz.Phase(),
		width:   80,
		height:  24,
	}
	m.enterStep()
	return m
}

// Init focuses the first field.
func (m *Model[T]) Init() tea.Cmd {
	return m.focusCmd()
}

// Cancelled reports whether the user left before confirming.
func (m *Model[T]) Cancelled() bool { return m.cancelled }

// Chosen returns the confirmed-state action key the user left with, if any.
func (m *Model[T]) Chosen() string { return m.chosen }

// Result returns the confirmation.
func (m *Model[T]) Result() (T, bool) { return m.wiz.Result() }

// Wizard returns the wrapped flow.
func (m *Model[T]) Wizard() *flow.Wizard[T] { return m.wiz }

func (m *Model[T]) fields() []flow.Field { return m.wiz.Current().Fields }

func (m *Model[T]) focused() (flow.Field, bool) {
	fs := m.fields()
	if m.focus < 0 || m.focus >= len(fs) {
		return flow.Field{}, false
	}
	return fs[m.focus], true
}

// enterStep rebuilds the inputs of the current step from the form state.
func (m *Model[T]) enterStep() {
	state := m.wiz.State()
	for _, in := range m.inputs {
		in.Blur()
	}
	for _, f := range m.fields() {
		if !hasInput(f) {
			continue
		}
		in, ok := m.inputs[f.Name]
		if !ok {
			created := newInput(f, m.inputWidth())
			in = &created
			m.inputs[f.Name] = in
		}
		in.SetValue(state.Text(f.Name))
	}
	m.focus = 0
	m.status = ""
}

func (m *Model[T]) inputWidth() int {
	w := m.modalWidth() - 12
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model[T]) focusCmd() tea.Cmd {
	for _, in := range m.inputs {
		in.Blur()
	}
	f, ok := m.focused()
	if !ok || !hasInput(f) {
		return nil
	}
	return m.inputs[f.Name].Focus()
}

func (m *Model[T]) moveFocus(delta int) tea.Cmd {
	n := len(m.fields())
	if n == 0 {
		return nil
	}
	m.focus = ((m.focus+delta)%n + n) % n
	return m.focusCmd()
}

// syncPhase picks up phase changes and runs OnConfirmed once per
// confirmation.
func (m *Model[T]) syncPhase() tea.Cmd {
	prev := m.phase
	m.phase = m.wiz.Phase()

	switch m.phase {
	case submit.Confirmed:
		if m.announced {
			return nil
		}
		m.announced = true
		m.sent = true
		if res, ok := m.wiz.Result(); ok && m.cfg.OnConfirmed != nil {
			return m.cfg.OnConfirmed(res)
		}
	case submit.Idle:
		m.announced = false
		if prev != submit.Idle {
			return m.focusCmd()
		}
	}
	return nil
}

// Update handles messages for the wizard.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, in := range m.inputs {
			in.SetWidth(m.inputWidth())
		}
		return m, nil

	case PhaseChangedMsg:
		return m, m.syncPhase()

	case spinner.TickMsg:
		cmd := m.syncPhase()
		if m.phase != submit.Processing {
			return m, cmd
		}
		var tick tea.Cmd
		m.spinner, tick = m.spinner.Update(msg)
		return m, tea.Batch(cmd, tick)

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Editor failed: %v", msg.Err)
			return m, nil
		}
		for _, f := range m.fields() {
			if f.Name == msg.Field && m.wiz.Apply(f.Update(msg.Content)) {
				if in, ok := m.inputs[f.Name]; ok {
					in.SetValue(msg.Content)
				}
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = m.phase != submit.Confirmed
			return m, m.quit()
		}
		cmd := m.syncPhase()
		switch m.phase {
		case submit.Processing:
			return m, tea.Batch(cmd, m.updateProcessing(msg))
		case submit.Confirmed:
			return m, tea.Batch(cmd, m.updateConfirmed(msg))
		default:
			return m, tea.Batch(cmd, m.updateIdle(msg))
		}
	}
	return m, nil
}

// updateProcessing ignores keys; the submission runs to completion.
func (m *Model[T]) updateProcessing(tea.KeyPressMsg) tea.Cmd {
	return nil
}

func (m *Model[T]) updateConfirmed(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "enter", "q":
		return m.quit()
	case "esc":
		if m.wiz.Back() {
			m.phase = m.wiz.Phase()
			m.announced = false
			m.enterStep()
			return m.focusCmd()
		}
		return m.quit()
	case "r":
		if m.wiz.Discard() {
			m.phase = m.wiz.Phase()
			m.announced = false
			return m.focusCmd()
		}
		return nil
	}
	for _, a := range m.cfg.Actions {
		if a.Key == key {
			m.chosen = key
			return m.quit()
		}
	}
	return nil
}

func (m *Model[T]) updateIdle(msg tea.KeyPressMsg) tea.Cmd {
	f, hasField := m.focused()

	switch msg.String() {
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)

	case "esc":
		if m.wiz.Back() {
			m.enterStep()
			return m.focusCmd()
		}
		m.cancelled = true
		return m.quit()

	case "enter":
		return m.advance()

	case "ctrl+e":
		if hasField && f.Kind == flow.FieldLongText {
			return openEditor(f.Name, m.wiz.State().Text(f.Name))
		}
		return nil

	case "left", "right", "space":
		if hasField && f.Kind == flow.FieldChoice {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.wiz.Apply(f.Update(cycleChoice(f, m.wiz.State(), delta)))
			return nil
		}
		if hasField && msg.String() == "space" && (f.Kind == flow.FieldToggle || f.Kind == flow.FieldFlag) {
			m.wiz.Apply(f.Toggle(m.wiz.State()))
			return nil
		}
	}

	if !hasField || !hasInput(f) {
		return nil
	}
	in := m.inputs[f.Name]
	before := in.Value()
	updated, cmd := in.Update(msg)
	*in = updated
	if v := in.Value(); v != before {
		m.wiz.Apply(f.Update(v))
		m.status = ""
	}
	return cmd
}

func (m *Model[T]) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// advance moves to the next step, or confirms on the last one.
func (m *Model[T]) advance() tea.Cmd {
	if m.wiz.IsFinal() {
		if !m.wiz.Confirm() {
			m.status = "Some steps are incomplete. Go back and fill in the required fields."
			return nil
		}
		m.status = ""
		cmd := m.syncPhase()
		if m.phase == submit.Processing {
			return tea.Batch(cmd, m.spinner.Tick)
		}
		return cmd
	}
	if !m.wiz.Next() {
		m.status = "Please complete the required fields to continue."
		return nil
	}
	m.enterStep()
	return m.focusCmd()
}

// Render returns the frame content without the screen wrapper.
func (m *Model[T]) Render() string {
	st := theme.Current().S()
	def := m.wiz.Definition()

	var sections []string
	sections = append(sections, st.Title.Render(m.cfg.Title))
	if def.Len() > 1 {
		sections = append(sections, renderProgress(def.Steps, m.wiz.Step()))
	}
	sections = append(sections, "")

	switch m.phase {
	case submit.Processing:
		sections = append(sections,
			m.spinner.View()+" "+st.Value.Render(m.cfg.Busy),
		)
	case submit.Confirmed:
		sections = append(sections, m.renderConfirmed(def))
	default:
		sections = append(sections, m.renderStep(def))
	}
	return strings.Join(sections, "\n")
}

func (m *Model[T]) renderStep(def flow.Definition) string {
	st := theme.Current().S()
	step := m.wiz.Current()
	state := m.wiz.State()

	var b []string
	if def.Len() > 1 {
		b = append(b, st.Subtitle.Render(fmt.Sprintf("Step %d of %d: %s", m.wiz.Step(), def.Len(), step.Title)), "")
	}
	if m.sent && m.phase == submit.Idle && def.Len() == 1 {
		b = append(b, st.Success.Render("✓ Sent"), "")
	}
	for i, f := range step.Fields {
		b = append(b, renderField(f, state, m.inputs[f.Name], i == m.focus))
	}
	if len(step.Fields) == 0 {
		md := ReviewMarkdown(def, state)
		if m.cfg.Review != nil {
			md += "\n\n" + m.cfg.Review(state)
		}
		b = append(b, RenderMarkdown(md, m.modalWidth()-6))
	}
	b = append(b, "")
	if m.status != "" {
		b = append(b, st.Error.Render(m.status), "")
	}

	primary := "Next →"
	if m.wiz.IsFinal() {
		primary = m.cfg.ConfirmLabel
	}
	backLabel := "← Back"
	if !m.wiz.CanBack() {
		backLabel = "Cancel"
	}
	ready := m.wiz.CanNext()
	if m.wiz.IsFinal() {
		ready = m.wiz.CanConfirm()
	}
	bar := NewButtonBar(navButtons(backLabel, true, primary, ready))
	bar.SetWidth(m.modalWidth() - 6)
	b = append(b, bar.Render())

	hints := []string{"tab", "next field", "enter", strings.ToLower(strings.TrimSuffix(primary, " →")), "esc", strings.ToLower(strings.TrimPrefix(backLabel, "← "))}
	if f, ok := m.focused(); ok {
		switch f.Kind {
		case flow.FieldChoice:
			hints = append(hints, "←→", "choose")
		case flow.FieldToggle, flow.FieldFlag:
			hints = append(hints, "space", "toggle")
		case flow.FieldLongText:
			hints = append(hints, "ctrl+e", "editor")
		}
	}
	b = append(b, renderHintBar(hints...))
	return strings.Join(b, "\n")
}

func (m *Model[T]) renderConfirmed(def flow.Definition) string {
	var body string
	if res, ok := m.wiz.Result(); ok && m.cfg.Render != nil {
		body = RenderMarkdown(m.cfg.Render(res), m.modalWidth()-6)
	}
	hints := []string{"enter", "done"}
	if !def.Terminal {
		hints = append(hints, "r", "modify")
		if m.wiz.CanBack() {
			hints = append(hints, "esc", "back")
		}
	}
	for _, a := range m.cfg.Actions {
		hints = append(hints, a.Key, a.Desc)
	}
	return body + "\n\n" + renderHintBar(hints...)
}

func (m *Model[T]) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View renders the wizard UI.
func (m *Model[T]) View() tea.View {
	var view tea.View
	if m.quitting {
		// Leave the alt screen empty so the terminal restores cleanly.
		view.Content = lipgloss.NewLayer("")
		return view
	}
	view.AltScreen = true

	modal := theme.Current().S().Modal.Width(m.modalWidth()).Render(m.Render())
	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

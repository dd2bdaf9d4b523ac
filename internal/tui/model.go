package tui

import (
	"context"
	"strings"

	"growbox_dashboard/internal/submit"
	"growbox_dashboard/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form is the part of the reconciler the model drives.
type Form interface {
	Input(f view.Field, value string)
	View() view.State
}

// Submitter sends the current targets.
type Submitter interface {
	Submit(ctx context.Context) submit.Feedback
}

const inputWidth = 8

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx       context.Context
	form      Form
	submitter Submitter
	keys      KeyMap

	inputs   [len(view.Fields)]textinput.Model
	edited   [len(view.Fields)]bool // set by the first local edit, never cleared
	focus    int
	state    view.State
	feedback submit.Feedback
	width    int
}

// NewModel returns a model showing form's current state. ctx bounds
// submissions started from the keyboard.
func NewModel(ctx context.Context, form Form, submitter Submitter) Model {
	m := Model{
		ctx:       ctx,
		form:      form,
		submitter: submitter,
		keys:      DefaultKeyMap,
		state:     form.View(),
	}
	for i, f := range view.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = inputWidth
		in.CharLimit = 16
		in.Placeholder = placeholderFor(f)
		in.SetValue(m.state.Field(f).Value)
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

func placeholderFor(f view.Field) string {
	if f == view.FieldTargetAirHumidity {
		return "0-100"
	}
	return "HH:MM"
}

// State returns the last reconciler state the model accepted.
func (m Model) State() view.State {
	return m.state
}

// Feedback returns the feedback line currently shown.
func (m Model) Feedback() submit.Feedback {
	return m.feedback
}

// Focused returns the field that receives keystrokes.
func (m Model) Focused() view.Field {
	return view.Fields[m.focus]
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.applyState(msg.state)
		return m, nil

	case feedbackMsg:
		m.feedback = msg.feedback
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.moveFocus(-1)
		case key.Matches(msg, m.keys.Submit):
			return m, m.submitCmd()
		}
		return m, m.updateFocused(msg)
	}

	return m, m.updateFocused(msg)
}

// applyState accepts st unless an equal or newer state was already applied.
// Fields edited here are owned by their input widget and are not rewritten,
// even by a state rendered before the edit that arrives after it.
func (m *Model) applyState(st view.State) {
	if st.Version <= m.state.Version {
		return
	}
	m.state = st
	for i, f := range view.Fields {
		fs := st.Field(f)
		if fs.Touched || m.edited[i] {
			continue
		}
		if m.inputs[i].Value() != fs.Value {
			m.inputs[i].SetValue(fs.Value)
		}
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	n := len(m.inputs)
	m.focus = ((m.focus+delta)%n + n) % n
	return m.inputs[m.focus].Focus()
}

// updateFocused forwards msg to the focused input and reports an edit to
// the reconciler when the value changed.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.edited[m.focus] = true
		m.form.Input(view.Fields[m.focus], after)
	}
	return cmd
}

// submitCmd runs the submission off the update loop. The result reaches
// the model through the feedback bridge.
func (m Model) submitCmd() tea.Cmd {
	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		submitter.Submit(ctx)
		return nil
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(22)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (m Model) View() string {
	s := m.state

	sensors := panelStyle.Render(strings.Join([]string{
		titleStyle.Render("Sensores"),
		row("Temperatura (°C)", s.Sensors.Temperature),
		row("Umidade do ar (%)", s.Sensors.AirHumidity),
		row("Umidade do solo (%)", s.Sensors.SoilHumidity),
		row("VPD (kPa)", s.Sensors.VPD),
	}, "\n"))

	status := panelStyle.Render(strings.Join([]string{
		titleStyle.Render("Atuadores"),
		row("Luz", s.Status.Light),
		row("Liga às", s.Status.LightOnTime),
		row("Desliga às", s.Status.LightOffTime),
		row("Umidificador", s.Status.Humidifier),
		row("Umidade alvo (%)", s.Status.CurrentTargetAirHumidity),
	}, "\n"))

	labels := [len(view.Fields)]string{"Umidade alvo (%)", "Ligar luz", "Desligar luz"}
	formLines := []string{titleStyle.Render("Alvos")}
	for i, in := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusStyle.Render("> ") + labelStyle.Width(20).Render(labels[i])
		}
		formLines = append(formLines, label+in.View())
	}
	formLines = append(formLines, m.feedbackLine())
	form := panelStyle.Render(strings.Join(formLines, "\n"))

	top := lipgloss.JoinHorizontal(lipgloss.Top, sensors, status)
	return lipgloss.JoinVertical(lipgloss.Left, top, form, m.helpLine()) + "\n"
}

func (m Model) feedbackLine() string {
	switch m.feedback.Kind {
	case submit.KindSuccess:
		return successStyle.Render(m.feedback.Message)
	case submit.KindError:
		return errorStyle.Render(m.feedback.Message)
	}
	return ""
}

func (m Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

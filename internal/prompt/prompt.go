// Package prompt collects scaffold inputs through an interactive form.
package prompt

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Result holds the values collected by the form.
type Result struct {
	Package     string
	Description string
	Values      []string
	Canceled    bool
}

const (
	fieldPackage = iota
	fieldDescription
	fieldValues
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Package",
	"Description",
	"Values (comma separated)",
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#3a3a3a", Dark: "#d0d0d0"})

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6b6b6b", Dark: "#9e9e9e"})

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Run drives the form and returns what the user entered. Defaults seed
// the fields; a canceled form returns Result{Canceled: true}.
func Run(output io.Writer, defaults Result) (Result, error) {
	program := tea.NewProgram(newFormModel(defaults), tea.WithOutput(output))

	final, err := program.Run()
	if err != nil {
		return Result{}, err
	}

	return final.(formModel).result(), nil
}

// formModel is the Bubble Tea model for the three-field scaffold form.
type formModel struct {
	inputs   []textinput.Model
	focused  int
	done     bool
	canceled bool
	width    int
}

func newFormModel(defaults Result) formModel {
	inputs := make([]textinput.Model, fieldCount)

	for i := range inputs {
		input := textinput.New()
		input.Prompt = "> "
		input.CharLimit = 120
		inputs[i] = input
	}

	inputs[fieldPackage].SetValue(defaults.Package)
	inputs[fieldPackage].Placeholder = "mypackage"

	inputs[fieldDescription].SetValue(defaults.Description)
	inputs[fieldDescription].Placeholder = "what the group describes"

	inputs[fieldValues].SetValue(strings.Join(defaults.Values, ", "))
	inputs[fieldValues].Placeholder = "first, second"

	inputs[fieldPackage].Focus()

	return formModel{inputs: inputs}
}

func (fm formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (fm formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fm.width = msg.Width

		return fm, nil

	case tea.KeyMsg:
		return fm.handleKeyPress(msg)
	}

	return fm.updateFocused(msg)
}

//nolint:exhaustive // Remaining key types belong to the focused input
func (fm formModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		fm.canceled = true

		return fm, tea.Quit

	case tea.KeyEnter:
		if fm.focused == fieldCount-1 {
			fm.done = true

			return fm, tea.Quit
		}

		return fm.focusField(fm.focused + 1), nil

	case tea.KeyTab, tea.KeyDown:
		return fm.focusField((fm.focused + 1) % fieldCount), nil

	case tea.KeyShiftTab, tea.KeyUp:
		return fm.focusField((fm.focused + fieldCount - 1) % fieldCount), nil
	}

	return fm.updateFocused(msg)
}

func (fm formModel) focusField(i int) formModel {
	fm.inputs[fm.focused].Blur()
	fm.focused = i
	fm.inputs[fm.focused].Focus()

	return fm
}

func (fm formModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	fm.inputs[fm.focused], cmd = fm.inputs[fm.focused].Update(msg)

	return fm, cmd
}

func (fm formModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lazyspec generate"))
	b.WriteString("\n\n")

	for i, input := range fm.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter: next field | tab/shift+tab: move | esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

func (fm formModel) result() Result {
	if fm.canceled {
		return Result{Canceled: true}
	}

	return Result{
		Package:     strings.TrimSpace(fm.inputs[fieldPackage].Value()),
		Description: strings.TrimSpace(fm.inputs[fieldDescription].Value()),
		Values:      splitValues(fm.inputs[fieldValues].Value()),
	}
}

func splitValues(raw string) []string {
	var values []string

	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

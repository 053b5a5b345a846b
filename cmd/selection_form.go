package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"vocalis/internal/form"
	"vocalis/internal/logging"
	"vocalis/internal/render"
	"vocalis/internal/selection"
)

const classPlaceholder = "-- Select Class --"

type formField int

const (
	fieldClass formField = iota
	fieldEnglish
	fieldScientific
	fieldSound
	fieldSubmit
	fieldCount
)

var fieldLabels = [...]string{
	fieldClass:      "Class",
	fieldEnglish:    "English name",
	fieldScientific: "Scientific name",
	fieldSound:      "Sound",
	fieldSubmit:     "",
}

var (
	focusStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type selectionFetchedMsg struct {
	resp selection.Response
}

type selectionFormModel struct {
	ctx     context.Context
	lookup  selection.Lookup
	logger  *logging.Logger
	classes []string

	state   selection.State
	focus   formField
	spinner spinner.Model

	quitting bool
}

func newFormCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "form",
		Short:       "Interactive class, animal and sound lookup form (default)",
		Annotations: map[string]string{interactiveAnnotation: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelectionForm(cmd.Context(), a.cfg.Classes, a.client, a.logger)
		},
	}
}

func runSelectionForm(ctx context.Context, classes []string, lookup selection.Lookup, logger *logging.Logger) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	if len(classes) == 0 {
		return fmt.Errorf("no classes configured")
	}

	m := newSelectionFormModel(ctx, classes, lookup, logger)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run selection form: %w", err)
	}
	return nil
}

func newSelectionFormModel(ctx context.Context, classes []string, lookup selection.Lookup, logger *logging.Logger) *selectionFormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &selectionFormModel{
		ctx:     ctx,
		lookup:  lookup,
		logger:  logger,
		classes: classes,
		state:   selection.New(),
		spinner: s,
	}
}

func (m *selectionFormModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *selectionFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case selectionFetchedMsg:
		var fetch selection.Fetch
		m.state, fetch = m.state.Apply(msg.resp)
		return m, m.perform(fetch)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "down", "j", "tab":
			m.focus = (m.focus + 1) % fieldCount
		case "up", "k", "shift+tab":
			m.focus = (m.focus + fieldCount - 1) % fieldCount
		case "right", "l":
			return m, m.cycle(1)
		case "left", "h":
			return m, m.cycle(-1)
		case "enter":
			var fetch selection.Fetch
			m.state, fetch = m.state.Submit()
			return m, m.perform(fetch)
		}
	}

	return m, nil
}

func (m *selectionFormModel) perform(fetch selection.Fetch) tea.Cmd {
	if fetch == nil {
		return nil
	}
	ctx, lookup, logger := m.ctx, m.lookup, m.logger
	return func() tea.Msg {
		return selectionFetchedMsg{resp: selection.Perform(ctx, lookup, logger, fetch)}
	}
}

func (m *selectionFormModel) options(f formField) []form.Option {
	switch f {
	case fieldClass:
		return form.Options(classPlaceholder, m.classes)
	case fieldEnglish:
		return m.state.EnglishOptions()
	case fieldScientific:
		return m.state.ScientificOptions()
	case fieldSound:
		return m.state.SoundOptions()
	default:
		return nil
	}
}

func (m *selectionFormModel) value(f formField) string {
	switch f {
	case fieldClass:
		return m.state.Class
	case fieldEnglish:
		return m.state.EnglishName
	case fieldScientific:
		return m.state.ScientificName
	case fieldSound:
		return m.state.Sound
	default:
		return ""
	}
}

func (m *selectionFormModel) enabled(f formField) bool {
	switch f {
	case fieldClass:
		return true
	case fieldEnglish, fieldScientific:
		return m.state.NamesEnabled()
	case fieldSound:
		return m.state.SoundEnabled()
	default:
		return m.state.CanSubmit()
	}
}

// cycle moves the focused dropdown to its neighbouring option and fires the
// matching change event.
func (m *selectionFormModel) cycle(step int) tea.Cmd {
	if m.focus == fieldSubmit || !m.enabled(m.focus) {
		return nil
	}
	opts := m.options(m.focus)
	if len(opts) < 2 {
		return nil
	}

	idx := optionIndex(opts, m.value(m.focus))
	next := (idx + step + len(opts)) % len(opts)
	return m.choose(m.focus, opts[next].Value)
}

func (m *selectionFormModel) choose(f formField, value string) tea.Cmd {
	var fetch selection.Fetch
	switch f {
	case fieldClass:
		m.state, fetch = m.state.SelectClass(value)
	case fieldEnglish:
		m.state, fetch = m.state.SelectEnglishName(value)
	case fieldScientific:
		m.state, fetch = m.state.SelectScientificName(value)
	case fieldSound:
		m.state = m.state.SelectSound(value)
	}
	return m.perform(fetch)
}

func optionIndex(opts []form.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func (m *selectionFormModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		focusStyle.Render("Animal vocalization lookup"),
		"",
	}
	for f := fieldClass; f < fieldSubmit; f++ {
		lines = append(lines, m.fieldView(f))
	}

	submit := "[ Analyze ]"
	switch {
	case m.focus == fieldSubmit:
		submit = focusStyle.Render("> " + submit)
	case !m.enabled(fieldSubmit):
		submit = disabledStyle.Render("  " + submit)
	default:
		submit = "  " + submit
	}
	lines = append(lines, "", submit, "")

	if m.state.Panel.Kind == form.PanelLoading {
		lines = append(lines, m.spinner.View()+" "+render.Text(m.state.Panel))
	} else if out := render.Text(m.state.Panel); out != "" {
		lines = append(lines, out)
	}

	lines = append(lines, "", helpStyle.Render("Keys: j/k move | h/l change | Enter analyze | q exit"))
	return strings.Join(lines, "\n")
}

func (m *selectionFormModel) fieldView(f formField) string {
	opts := m.options(f)
	label := "-"
	if len(opts) > 0 {
		label = opts[optionIndex(opts, m.value(f))].Label
	}
	if m.loading(f) {
		label = m.spinner.View() + " " + label
	}

	row := fmt.Sprintf("%-16s ‹ %s ›", fieldLabels[f]+":", label)
	switch {
	case f == m.focus:
		return focusStyle.Render("> " + row)
	case !m.enabled(f):
		return disabledStyle.Render("  " + row)
	default:
		return "  " + row
	}
}

func (m *selectionFormModel) loading(f formField) bool {
	switch f {
	case fieldEnglish, fieldScientific:
		return m.state.AnimalsLoading
	case fieldSound:
		return m.state.Sounds.Status == form.SoundsLoading
	default:
		return false
	}
}

// Package tui is a terminal front end for the poster studio.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Input fields in focus order
const (
	fieldMainContent = iota
	fieldTitle
	fieldPrintSize
	fieldStyle
	fieldCount
)

const defaultWidth = 72

type generationDoneMsg struct {
	state *models.AppState
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the poster TUI
type Model struct {
	ctx       context.Context
	studio    *services.PosterStudio
	sessionID string
	lang      string
	outDir    string

	keys        KeyMap
	help        help.Model
	mainContent textarea.Model
	title       textinput.Model
	spinner     spinner.Model
	sizeIndex   int
	styleIndex  int
	focus       int

	state      *models.AppState
	generating bool
	exporting  bool
	alert      string
	status     string
	width      int
}

// Options configures a Model
type Options struct {
	SessionID string
	Lang      string
	OutDir    string // exported PDFs are written here
}

// NewModel restores the session from studio and builds the input widgets
func NewModel(ctx context.Context, studio *services.PosterStudio, opts Options) (*Model, error) {
	lang := opts.Lang
	if lang == "" || !i18n.Supported(lang) {
		lang = i18n.DefaultLanguage()
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}

	m := &Model{
		ctx:       ctx,
		studio:    studio,
		sessionID: opts.SessionID,
		lang:      lang,
		outDir:    outDir,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:     defaultWidth,
	}

	m.mainContent = textarea.New()
	m.mainContent.Placeholder = m.t("form.main_content_placeholder")
	m.mainContent.SetWidth(defaultWidth - 4)
	m.mainContent.SetHeight(5)
	m.mainContent.ShowLineNumbers = false

	m.title = textinput.New()
	m.title.Placeholder = m.t("form.title_placeholder")
	m.title.CharLimit = 200

	state, err := studio.Load(ctx, opts.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	m.state = state
	m.fillInputs(state.Form)
	if state.Screen == models.ScreenOutput && state.Preview.Kind == models.PreviewLoading {
		m.generating = true
	}
	return m, nil
}

func (m *Model) t(key string) string {
	return i18n.Translate(m.lang, key)
}

func (m *Model) fillInputs(form models.PosterForm) {
	form = form.WithDefaults()
	m.mainContent.SetValue(form.MainContent)
	m.title.SetValue(form.Title)
	m.sizeIndex = indexOf(models.PrintSizes(), services.NormalizePrintSize(form.PrintSize))
	m.styleIndex = indexOf(models.Styles(), form.Style)
}

// Form returns the input widgets as a poster form
func (m *Model) Form() models.PosterForm {
	return models.PosterForm{
		MainContent: m.mainContent.Value(),
		Title:       m.title.Value(),
		PrintSize:   models.PrintSizes()[m.sizeIndex],
		Style:       models.Styles()[m.styleIndex],
	}
}

// State returns the session state as last seen
func (m *Model) State() *models.AppState {
	return m.state
}

// Init focuses the first field, resuming an interrupted generation
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.setFocus(fieldMainContent)}
	if m.generating {
		cmds = append(cmds, m.spinner.Tick, m.runGeneration())
	}
	return tea.Batch(cmds...)
}

// Update handles keys, window size and the results of background work
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.mainContent.SetWidth(max(msg.Width-4, 20))
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generationDoneMsg:
		m.generating = false
		if msg.state != nil {
			m.state = msg.state
		}
		if msg.err != nil && !errors.As(msg.err, new(*services.GenerationError)) {
			m.alert = m.t(services.MessageKeyFor(msg.err))
		}
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			messageKey := services.MessageKeyFor(msg.err)
			if messageKey == services.MsgGenerationFailed {
				messageKey = services.MsgExportFailed
			}
			m.alert = m.t(messageKey)
			m.status = ""
			return m, nil
		}
		m.status = msg.path
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	// any key dismisses the alert
	m.alert = ""

	if m.state.Screen == models.ScreenOutput {
		switch {
		case m.generating || m.exporting:
			return m, nil
		case key.Matches(msg, m.keys.Regenerate):
			return m, m.regenerate()
		case key.Matches(msg, m.keys.Print):
			return m, m.export()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Generate):
		return m, m.generate()
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case m.focus == fieldPrintSize && key.Matches(msg, m.keys.PrevOption, m.keys.NextOption):
		m.sizeIndex = step(m.sizeIndex, len(models.PrintSizes()), key.Matches(msg, m.keys.NextOption))
		return m, m.save()
	case m.focus == fieldStyle && key.Matches(msg, m.keys.PrevOption, m.keys.NextOption):
		m.styleIndex = step(m.styleIndex, len(models.Styles()), key.Matches(msg, m.keys.NextOption))
		return m, m.save()
	}

	model, cmd := m.updateFocused(msg)
	return model, tea.Batch(cmd, m.save())
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldMainContent:
		m.mainContent, cmd = m.mainContent.Update(msg)
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	m.mainContent.Blur()
	m.title.Blur()
	switch field {
	case fieldMainContent:
		return m.mainContent.Focus()
	case fieldTitle:
		return m.title.Focus()
	}
	return nil
}

// save autosaves the form; failures only matter for the next restore
func (m *Model) save() tea.Cmd {
	if err := m.studio.SaveForm(m.ctx, m.sessionID, m.Form()); err != nil {
		m.status = err.Error()
	}
	return nil
}

// generate validates and switches to the loading screen, then runs the generation in the background
func (m *Model) generate() tea.Cmd {
	state, err := m.studio.StartGeneration(m.ctx, m.sessionID, m.Form())
	if err != nil {
		m.alert = m.t(services.MessageKeyFor(err))
		return nil
	}
	m.state = state
	m.generating = true
	m.status = ""
	return tea.Batch(m.spinner.Tick, m.runGeneration())
}

func (m *Model) runGeneration() tea.Cmd {
	ctx, studio, sessionID := m.ctx, m.studio, m.sessionID
	return func() tea.Msg {
		state, err := studio.CompleteGeneration(ctx, sessionID)
		return generationDoneMsg{state: state, err: err}
	}
}

func (m *Model) regenerate() tea.Cmd {
	state, err := m.studio.Regenerate(m.ctx, m.sessionID)
	if err != nil {
		m.alert = err.Error()
		return nil
	}
	m.state = state
	m.fillInputs(state.Form)
	return m.setFocus(fieldMainContent)
}

// export writes the PDF to the output directory, the terminal's download
func (m *Model) export() tea.Cmd {
	if m.state.GeneratedPosterURL == "" {
		m.alert = m.t(services.MsgNothingToPrint)
		return nil
	}
	m.exporting = true
	ctx, studio, sessionID, outDir := m.ctx, m.studio, m.sessionID, m.outDir
	return func() tea.Msg {
		_, doc, err := studio.Export(ctx, sessionID)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(outDir, doc.FileName)
		if err := os.WriteFile(path, doc.Data, 0644); err != nil {
			return exportDoneMsg{err: &services.ExportError{Stage: "save", Err: err}}
		}
		return exportDoneMsg{path: path}
	}
}

// View renders the current screen
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.t("app.title")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.wrap(m.t("app.subtitle"))))
	b.WriteString("\n\n")

	if m.state.Screen == models.ScreenOutput {
		b.WriteString(m.outputView())
	} else {
		b.WriteString(m.inputView())
	}

	if m.alert != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.wrap("! " + m.alert)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) inputView() string {
	var b strings.Builder
	b.WriteString(m.label(fieldMainContent, "form.main_content"))
	b.WriteString(m.mainContent.View())
	b.WriteString("\n\n")
	b.WriteString(m.label(fieldTitle, "form.title"))
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.label(fieldPrintSize, "form.print_size"))
	b.WriteString(m.options(models.PrintSizes(), m.sizeIndex, "form.sizes."))
	b.WriteString("\n\n")
	b.WriteString(m.label(fieldStyle, "form.style"))
	b.WriteString(m.options(models.Styles(), m.styleIndex, "form.styles."))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Ctrl+G: " + m.t("form.generate")))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) label(field int, key string) string {
	style := labelStyle
	prefix := "  "
	if m.focus == field {
		style = focusStyle
		prefix = "> "
	}
	return style.Render(prefix+m.t(key)) + "\n"
}

func (m *Model) options(values []string, selected int, keyPrefix string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		text := m.t(keyPrefix + v)
		if i == selected {
			parts[i] = focusStyle.Render("[" + text + "]")
		} else {
			parts[i] = mutedStyle.Render(" " + text + " ")
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) outputView() string {
	preview := m.state.Preview
	var body string
	switch {
	case m.generating || preview.Kind == models.PreviewLoading:
		body = m.spinner.View() + " " + m.t(services.MsgLoading)
	case preview.Kind == models.PreviewImage:
		body = okStyle.Render(m.wrap(m.t(preview.HeadingKey))) + "\n\n" + m.wrap(preview.ImageURL)
	case preview.Kind == models.PreviewError:
		body = errorStyle.Render(m.wrap(m.t(preview.MessageKey)))
	default:
		body = mutedStyle.Render(m.t("preview.empty"))
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")
	if m.exporting {
		b.WriteString(mutedStyle.Render(m.t("print.opening")))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(okStyle.Render(m.wrap(m.t("output.download") + ": " + m.status)))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("r: " + m.t("output.regenerate") + "   p: " + m.t("output.print")))
	b.WriteString("\n")
	return b.String()
}

// wrap fits text to the terminal; long unbroken runs such as Japanese text or URLs are hard wrapped
func (m *Model) wrap(s string) string {
	width := max(m.width-4, 20)
	return wrap.String(wordwrap.String(s, width), width)
}

func indexOf(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

func step(index, n int, forward bool) int {
	if forward {
		return (index + 1) % n
	}
	return (index + n - 1) % n
}

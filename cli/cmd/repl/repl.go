// Package repl implements an interactive preview session. The user edits
// YAML source in a text area while the rendered S-expression updates live
// in a viewport below it.
package repl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ysx/cli/cmd"
	"github.com/ardnew/ysx/log"
	"github.com/ardnew/ysx/sexpr"
)

// Styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusOnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Repl starts an interactive session that previews conversions live.
type Repl struct {
	Pretty bool `help:"Start with pretty-printed previews"       negatable:""`
	Indent int  `default:"2" help:"Indent width for pretty previews" short:"i"`
	Env    bool `help:"Start with $${...} substitution enabled"  short:"e"`
}

// Run executes the repl command.
// Sources given with the global source flags seed the edit buffer.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	var seed string

	if src := cmd.SourceFilesFrom(ctx); src != nil && !src.IsZero() {
		data, err := io.ReadAll(src)
		if err != nil {
			return cmd.ErrOpenSource.Wrap(err)
		}

		seed = string(data)
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.Bool("seeded", seed != ""),
		slog.Bool("pretty", r.Pretty),
		slog.Bool("env", r.Env),
	)

	m := newModel(ctx, seed, r.Pretty, r.Indent, r.Env, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const (
	defaultWidth = 80
	inputHeight  = 8
	// Lines consumed by the title, status, and candidate rows.
	chromeHeight = 4
)

// model is the Bubble Tea model for the preview session.
type model struct {
	ctxFunc    func() context.Context
	input      textarea.Model
	preview    viewport.Model
	logger     log.Logger
	names      []string      // environment variable names for completion
	matches    fuzzy.Matches // current fuzzy match results
	suggIdx    int           // selected candidate index
	rendered   string        // last successful preview text
	convertErr error         // last conversion error, nil when rendered is valid
	pretty     bool
	env        bool
	indent     int
	width      int
	quitting   bool
}

func newModel(
	ctx context.Context,
	seed string,
	pretty bool,
	indent int,
	env bool,
	logger log.Logger,
) model {
	ta := textarea.New()
	ta.Placeholder = "Type YAML here"
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(inputHeight)
	ta.Focus()

	if seed != "" {
		ta.SetValue(seed)
	}

	vp := viewport.New(defaultWidth, inputHeight)

	m := model{
		ctxFunc: func() context.Context { return ctx },
		input:   ta,
		preview: vp,
		logger:  logger,
		names:   envNames(),
		suggIdx: -1,
		pretty:  pretty,
		env:     env,
		indent:  indent,
		width:   defaultWidth,
	}

	m.refresh()

	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(msg.Width)
		m.preview.Width = msg.Width

		if h := msg.Height - inputHeight - chromeHeight; h > 0 {
			m.preview.Height = h
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlP:
		m.pretty = !m.pretty
		m.refresh()

		return m, nil

	case tea.KeyCtrlE:
		m.env = !m.env
		m.refresh()

		return m, nil

	case tea.KeyTab:
		return m.acceptCandidate()

	case tea.KeyShiftTab:
		return m.cycleCandidate()
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// acceptCandidate completes the selected candidate into the open placeholder.
// Without an open placeholder, Tab indents instead since literal tabs are not
// valid YAML whitespace.
func (m model) acceptCandidate() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		m.input.InsertString("  ")
		m.refresh()

		return m, nil
	}

	idx := m.suggIdx
	if idx < 0 || idx >= len(m.matches) {
		idx = 0
	}

	text := m.input.Value()

	_, start, ok := pendingPlaceholder(text)
	if !ok {
		return m, nil
	}

	m.input.SetValue(text[:start] + "${" + m.matches[idx].Str + "}")
	m.refresh()

	return m, nil
}

// cycleCandidate advances the selection through the candidate bar.
func (m model) cycleCandidate() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	m.suggIdx++
	if m.suggIdx >= len(m.matches) {
		m.suggIdx = 0
	}

	return m, nil
}

// refresh reconverts the buffer and recomputes completion candidates.
func (m *model) refresh() {
	m.matches = m.computeMatches()
	if m.suggIdx >= len(m.matches) {
		m.suggIdx = -1
	}

	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.rendered = ""
		m.convertErr = nil
		m.preview.SetContent(hintStyle.Render("Preview appears here"))

		return
	}

	out, err := sexpr.Convert(
		m.ctxFunc(),
		text,
		sexpr.WithPretty(m.pretty),
		sexpr.WithIndent(m.indent),
		sexpr.WithEnvSubstitution(m.env),
		sexpr.WithLogger(m.logger),
	)
	if err != nil {
		m.convertErr = err
		m.preview.SetContent(errorStyle.Render("error: " + err.Error()))

		return
	}

	m.rendered = out
	m.convertErr = nil
	m.preview.SetContent(resultStyle.Render(out))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("ysx"))
	b.WriteString(hintStyle.Render(
		"  tab: complete  shift+tab: cycle  ctrl+p: pretty  " +
			"ctrl+e: env  esc: quit",
	))
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")

	b.WriteString(m.preview.View())
	b.WriteString("\n")

	b.WriteString(m.statusView())
	b.WriteString("\n")

	if len(m.matches) > 0 {
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.suggIdx >= 0, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) statusView() string {
	toggle := func(name string, on bool) string {
		if on {
			return statusOnStyle.Render(name + ":on")
		}

		return statusOffStyle.Render(name + ":off")
	}

	parts := []string{
		toggle("pretty", m.pretty),
		toggle("env", m.env),
	}

	if m.convertErr != nil {
		parts = append(parts, errorStyle.Render("invalid"))
	} else if m.rendered != "" {
		parts = append(parts, statusOnStyle.Render("ok"))
	}

	return strings.Join(parts, "  ")
}

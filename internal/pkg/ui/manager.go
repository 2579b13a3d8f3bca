// Package ui provides terminal output components for howto.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/howto-cli/howto/internal/pkg/history"
)

const (
	// DefaultWidth is used when the terminal width cannot be detected.
	DefaultWidth = 80
	// frameMargin is the number of columns reserved around framed text.
	frameMargin = 6
	// minWrapWidth keeps very narrow terminals readable.
	minWrapWidth = 20

	answerPrefix    = "# "
	assistantPrefix = "   # "
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
}

// Manager defines the interface for terminal output.
type Manager interface {
	DisplayAnswer(answer string) error
	DisplayHistory(entries []history.Entry) error
	ShowSpinner(text string) Spinner
	ShowError(err error)
	ShowInfo(message string)
}

// Options controls how output is rendered.
type Options struct {
	ColorEnabled bool
	Markdown     bool
	// Width overrides terminal width detection when positive.
	Width int
}

// NewManager returns a DefaultManager when out is a terminal and a
// NonInteractiveManager otherwise.
func NewManager(out, errOut io.Writer, opts Options) Manager {
	if IsTerminal(out) {
		if opts.Width <= 0 {
			opts.Width = TerminalWidth(out)
		}
		return NewDefaultManager(out, errOut, opts)
	}
	return NewNonInteractiveManager(out, errOut, opts.Width)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w interface{}) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

// TerminalWidth returns the width of w, or DefaultWidth when unknown.
func TerminalWidth(w interface{}) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

func wrapWidth(width int) int {
	if width <= 0 {
		width = DefaultWidth
	}
	w := width - frameMargin
	if w < minWrapWidth {
		w = minWrapWidth
	}
	return w
}

// wrapLine wraps a single line to limit cells.
func wrapLine(line string, limit int) []string {
	if line == "" {
		return []string{""}
	}
	return strings.Split(ansi.Wrap(line, limit, ""), "\n")
}

func prefixed(prefix, line string) string {
	if line == "" {
		return strings.TrimRight(prefix, " ")
	}
	return prefix + line
}

// FrameAnswer lays out an answer between two "#" lines, each line prefixed with "# ".
func FrameAnswer(answer string, width int) []string {
	limit := wrapWidth(width)
	lines := []string{"#"}
	for _, line := range strings.Split(answer, "\n") {
		for _, wrapped := range wrapLine(line, limit) {
			lines = append(lines, prefixed(answerPrefix, wrapped))
		}
	}
	return append(lines, "#")
}

// FormatHistory lays out the history with user entries prefixed "# "
// and assistant entries indented and prefixed "   # ".
func FormatHistory(entries []history.Entry, width int) []string {
	limit := wrapWidth(width)
	var lines []string
	for _, e := range entries {
		prefix := answerPrefix
		if e.Role == history.RoleAssistant {
			prefix = assistantPrefix
		}
		for _, line := range strings.Split(e.Content, "\n") {
			for _, wrapped := range wrapLine(line, limit) {
				lines = append(lines, prefixed(prefix, wrapped))
			}
		}
	}
	return lines
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	frame      lipgloss.Style
	assistant  lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		return &styles{
			frame:      lipgloss.NewStyle(),
			assistant:  lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
		}
	}
	return &styles{
		frame: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// DefaultManager renders for an interactive terminal.
type DefaultManager struct {
	out      io.Writer
	errOut   io.Writer
	opts     Options
	styles   *styles
	renderer *glamour.TermRenderer
}

// NewDefaultManager creates a new DefaultManager with the specified options.
func NewDefaultManager(out, errOut io.Writer, opts Options) *DefaultManager {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	m := &DefaultManager{
		out:    out,
		errOut: errOut,
		opts:   opts,
		styles: newStyles(opts.ColorEnabled),
	}
	if opts.Markdown {
		style := glamour.WithAutoStyle()
		if !opts.ColorEnabled {
			style = glamour.WithStandardStyle("notty")
		}
		renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrapWidth(opts.Width)))
		if err == nil {
			m.renderer = renderer
		}
	}
	return m
}

// DisplayAnswer prints the framed answer, rendering markdown when enabled.
func (m *DefaultManager) DisplayAnswer(answer string) error {
	body := answer
	if m.renderer != nil {
		rendered, err := m.renderer.Render(answer)
		if err == nil {
			body = strings.Trim(rendered, "\n")
		}
	}

	hash := m.styles.frame.Render("#")
	prefix := m.styles.frame.Render(strings.TrimRight(answerPrefix, " ")) + " "

	var sb strings.Builder
	for _, line := range FrameAnswer(body, m.opts.Width) {
		if strings.HasPrefix(line, answerPrefix) {
			sb.WriteString(prefix + line[len(answerPrefix):] + "\n")
		} else {
			sb.WriteString(hash + "\n")
		}
	}

	_, err := io.WriteString(m.out, sb.String())
	return err
}

// DisplayHistory prints the formatted history.
func (m *DefaultManager) DisplayHistory(entries []history.Entry) error {
	var sb strings.Builder
	for _, line := range FormatHistory(entries, m.opts.Width) {
		if strings.HasPrefix(line, strings.TrimRight(assistantPrefix, " ")) {
			sb.WriteString(m.styles.assistant.Render(line))
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(m.out, sb.String())
	return err
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(m.errOut, text)
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render("Error: "+err.Error()))
}

// ShowInfo displays a plain message.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, message)
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	out     io.Writer
	program *tea.Program
	model   *spinnerModel
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for simple spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(out io.Writer, text string) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &bubbleSpinner{
		out: out,
		model: &spinnerModel{
			spinner: s,
			text:    text,
		},
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}
	// No input: stdin stays free for the continuous-mode prompt.
	s.program = tea.NewProgram(*s.model,
		tea.WithOutput(s.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.program, s.done)
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	<-s.done
	s.program = nil
}

// NonInteractiveManager renders plain text for pipes and redirects.
type NonInteractiveManager struct {
	out    io.Writer
	errOut io.Writer
	width  int
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(out, errOut io.Writer, width int) *NonInteractiveManager {
	if width <= 0 {
		width = DefaultWidth
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &NonInteractiveManager{out: out, errOut: errOut, width: width}
}

// DisplayAnswer prints the framed answer without styling.
func (m *NonInteractiveManager) DisplayAnswer(answer string) error {
	_, err := io.WriteString(m.out, strings.Join(FrameAnswer(answer, m.width), "\n")+"\n")
	return err
}

// DisplayHistory prints the formatted history without styling.
func (m *NonInteractiveManager) DisplayHistory(entries []history.Entry) error {
	lines := FormatHistory(entries, m.width)
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(m.out, strings.Join(lines, "\n")+"\n")
	return err
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(m.errOut, "Error: %s\n", err.Error())
}

// ShowInfo displays a plain message.
func (m *NonInteractiveManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, message)
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start() {}
func (s *noopSpinner) Stop()  {}

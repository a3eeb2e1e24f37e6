// Package repl is an interactive live-coding session for Cadence: type
// a line, press enter, see its effects and any errors appended to a
// scrolling transcript. Grounded on the teacher's display/tui.go
// TUIModel (bubbletea Init/Update/View split, lipgloss style palette),
// generalized from a fixed-track playback display to a REPL transcript.
package repl

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/width"

	"cadence/internal/cadence/binder"
	"cadence/internal/cadence/config"
	"cadence/internal/cadence/highlight"
	"cadence/internal/cadence/host"
	"cadence/internal/cadence/parser"
	"cadence/internal/cadence/validator"
)

var (
	primaryColor = lipgloss.Color("#00FFFF")
	errorColor   = lipgloss.Color("#FF6666")
	dimColor     = lipgloss.Color("#666666")

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)
)

// line is one transcript entry: the source typed plus the result or
// error it produced.
type line struct {
	source string
	result string
	isErr  bool
}

type model struct {
	interp  *host.Interpreter
	sink    *transcriptSink
	input   string
	history []line
	quit    bool
}

// transcriptSink collects Play/Tempo/Volume/Waveform/Stop effects as
// text lines for the REPL to display, rather than driving real audio
// (a Non-goal; see DESIGN.md).
type transcriptSink struct {
	last string
}

func (s *transcriptSink) Play(e host.Effect) error   { s.last = e.String(); return nil }
func (s *transcriptSink) Tempo(bpm float64) error    { s.last = fmt.Sprintf("tempo %g", bpm); return nil }
func (s *transcriptSink) Volume(level float64) error { s.last = fmt.Sprintf("volume %g", level); return nil }
func (s *transcriptSink) Waveform(name string) error { s.last = fmt.Sprintf("waveform %s", name); return nil }
func (s *transcriptSink) Stop() error                { s.last = "stopped"; return nil }
func (s *transcriptSink) Track(name string, body func() error) error {
	s.last = fmt.Sprintf("track %s", name)
	return body()
}

// Run starts the interactive session, loading projectPath for default
// tempo/volume/waveform if given.
func Run(projectPath string) error {
	sink := &transcriptSink{}
	interp := host.New(sink)
	if projectPath != "" {
		proj, err := config.Load(projectPath)
		if err != nil {
			return err
		}
		interp.Tempo(float64(proj.Tempo))
		interp.Volume(proj.Volume)
		interp.Waveform(proj.Waveform)
	}

	m := &model{interp: interp, sink: sink}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			m.evalLine()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			// Fold fullwidth forms (common from IME input/pasted text) to
			// their halfwidth equivalents so "１＋２" parses the same as "1+2".
			m.input += width.Fold.String(msg.String())
		}
	}
	return m, nil
}

func (m *model) evalLine() {
	src := strings.TrimSpace(m.input)
	m.input = ""
	if src == "" {
		return
	}

	prog, err := parser.Parse(src)
	if err != nil {
		m.history = append(m.history, line{source: src, result: err.Error(), isErr: true})
		return
	}
	table := binder.Bind(prog)
	if errs := validator.Validate(prog, table); len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		m.history = append(m.history, line{source: src, result: strings.Join(msgs, "; "), isErr: true})
		return
	}

	m.sink.last = ""
	if err := m.interp.Run(prog); err != nil {
		m.history = append(m.history, line{source: src, result: err.Error(), isErr: true})
		return
	}
	m.history = append(m.history, line{source: src, result: m.sink.last})
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("cadence") + dimStyle.Render(" — live coding, ctrl+c to quit") + "\n\n")

	for _, entry := range m.history {
		b.WriteString(renderSource(entry.source) + "\n")
		if entry.result != "" {
			if entry.isErr {
				b.WriteString(errorStyle.Render("  "+entry.result) + "\n")
			} else {
				b.WriteString(dimStyle.Render("  => "+entry.result) + "\n")
			}
		}
	}

	b.WriteString(promptStyle.Render("> ") + m.input + "█\n")
	return b.String()
}

// renderSource applies the highlighter's classification to color a
// submitted line in the transcript the same way an editor integration
// would, rather than showing it as plain text.
func renderSource(src string) string {
	spans, err := highlight.Highlight(src)
	if err != nil {
		return src
	}
	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span.StartByte > last {
			b.WriteString(src[last:span.StartByte])
		}
		text := src[span.StartByte:span.EndByte]
		b.WriteString(styleFor(span.Category).Render(text))
		last = span.EndByte
	}
	if last < len(src) {
		b.WriteString(src[last:])
	}
	return b.String()
}

func styleFor(cat highlight.Category) lipgloss.Style {
	switch cat {
	case highlight.CategoryKeyword:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")).Bold(true)
	case highlight.CategoryNote, highlight.CategoryPattern:
		return lipgloss.NewStyle().Foreground(primaryColor)
	case highlight.CategoryFunction:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	case highlight.CategoryNumber, highlight.CategoryBoolean:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
	case highlight.CategoryString:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	case highlight.CategoryComment, highlight.CategoryDocComment:
		return dimStyle
	}
	return lipgloss.NewStyle()
}

// Package tui is a full-screen qubit editor: calculation text on the left,
// the result of each line on the right, and the total below.
package tui

import (
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
)

const resultWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginLeft(2)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Align(lipgloss.Right)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Right)

	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2)
)

// Options configures the editor.
type Options struct {
	Format      qubit.Format
	Placeholder string
	// Text is the initial calculation.
	Text string
	// Env holds options applied to the environment of every evaluation.
	Env []qubit.EnvOption
	Log *logger.Logger
}

// Model is the bubbletea model of the editor. Every edit evaluates the whole
// text again in a fresh environment.
type Model struct {
	textarea textarea.Model
	format   qubit.Format
	envopts  []qubit.EnvOption
	log      *logger.Logger
	result   *qubit.Result
	width    int
	height   int
	quitting bool

	// yoff is the first visible wrapped row of the editor. The textarea
	// scrolls only once its content has been rendered, so viewed tracks
	// whether View has run.
	yoff   int
	viewed bool
}

// New creates the editor model.
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = opts.Placeholder
	ta.Prompt = "│ "
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetWidth(56)
	ta.SetHeight(20)
	ta.SetValue(opts.Text)
	ta.Focus()

	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	m := &Model{
		textarea: ta,
		format:   opts.Format,
		envopts:  opts.Env,
		log:      log,
		width:    80,
		height:   24,
	}
	m.recompute()
	return m
}

// Result returns the evaluation of the current text.
func (m *Model) Result() *qubit.Result {
	return m.result
}

// Value returns the current text.
func (m *Model) Value() string {
	return m.textarea.Value()
}

func (m *Model) recompute() {
	m.result = qubit.NewEnv(m.envopts...).EvalText(m.textarea.Value(), m.format)
	for i, l := range m.result.Lines {
		if l.Err != nil {
			m.log.Debug("line %d: %v", i+1, l.Err)
		}
	}
}

func (m *Model) Init() tea.Cmd {
	initialWindowSize := func() tea.Msg {
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			return nil
		}
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			return tea.WindowSizeMsg{Width: w, Height: h}
		}
		return nil
	}
	return tea.Batch(textarea.Blink, initialWindowSize)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	prev := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != prev {
		m.recompute()
	}
	m.follow()
	return m, cmd
}

// follow scrolls the results column the way the textarea scrolls its
// viewport, keeping the cursor's wrapped row visible.
func (m *Model) follow() {
	if !m.viewed {
		return
	}
	row := m.cursorRow()
	h := m.textarea.Height()
	switch {
	case row < m.yoff:
		m.yoff = row
	case row > m.yoff+h-1:
		m.yoff = row - h + 1
	}
}

// cursorRow is the wrapped row of the cursor counted from the top of the
// text.
func (m *Model) cursorRow() int {
	lines := strings.Split(m.textarea.Value(), "\n")
	row := 0
	for _, l := range lines[:min(m.textarea.Line(), len(lines))] {
		row += wrapHeight(l, m.textarea.Width())
	}
	return row + m.textarea.LineInfo().RowOffset
}

// wrapHeight is the number of rows the textarea uses to show line at the
// given width. It matches the textarea's word wrapping, including the extra
// row when the text plus the cursor cell fills the last one.
func wrapHeight(line string, width int) int {
	var (
		rows   = 1
		cur    []rune
		word   []rune
		spaces int
	)
	for _, r := range line {
		if unicode.IsSpace(r) {
			spaces++
		} else {
			word = append(word, r)
		}
		if spaces > 0 {
			if uniseg.StringWidth(string(cur))+uniseg.StringWidth(string(word))+spaces > width {
				rows++
				cur = cur[:0]
			}
			cur = append(cur, word...)
			for ; spaces > 0; spaces-- {
				cur = append(cur, ' ')
			}
			word = word[:0]
			continue
		}
		last := runewidth.RuneWidth(word[len(word)-1])
		if uniseg.StringWidth(string(word))+last > width {
			if len(cur) > 0 {
				rows++
				cur = cur[:0]
			}
			cur = append(cur, word...)
			word = word[:0]
		}
	}
	if uniseg.StringWidth(string(cur))+uniseg.StringWidth(string(word))+spaces >= width {
		rows++
	}
	return rows
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	// Title, total, help, and the gaps between them.
	ta := h - 5
	if ta < 3 {
		ta = 3
	}
	m.textarea.SetHeight(ta)
	tw := w - resultWidth - 4
	if tw < 20 {
		tw = 20
	}
	m.textarea.SetWidth(tw)
}

// visibleResults returns the result text for each visible editor row. A
// line's result sits on its first wrapped row; continuation rows and rows
// past the end of the text are empty.
func (m *Model) visibleResults() []string {
	h := m.textarea.Height()
	rows := make([]string, 0, h)
	width := m.textarea.Width()
	row := 0
	for i, l := range strings.Split(m.textarea.Value(), "\n") {
		if row >= m.yoff+h {
			break
		}
		out := ""
		if i < len(m.result.Lines) {
			out = m.result.Lines[i].Output
		}
		for k := wrapHeight(l, width); k > 0; k-- {
			if row >= m.yoff && row < m.yoff+h {
				rows = append(rows, out)
			}
			out = ""
			row++
		}
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return rows
}

// results renders the right-hand column beside the editor's rows.
func (m *Model) results() string {
	vis := m.visibleResults()
	rows := make([]string, len(vis))
	nan := m.format.Number(math.NaN())
	for i, out := range vis {
		switch out {
		case "":
		case nan:
			rows[i] = failedStyle.Width(resultWidth).Render(out)
		default:
			rows[i] = resultStyle.Width(resultWidth).Render(out)
		}
	}
	return columnStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	editor := m.textarea.View()
	m.viewed = true
	body := lipgloss.JoinHorizontal(lipgloss.Top, editor, m.results())
	total := totalStyle.Render("total " + m.format.Number(m.result.Total))
	return titleStyle.Render("qubit") + "\n\n" +
		body + "\n\n" +
		lipgloss.NewStyle().MarginLeft(2).Render(total) + "\n" +
		helpStyle.Render("esc: quit")
}

// Run starts the editor on the terminal and returns the evaluation of the
// text when the user quits.
func Run(opts Options) (*qubit.Result, error) {
	m := New(opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return nil, err
	}
	return m.Result(), nil
}

// Package repl implements the interactive qubit prompt.
package repl

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
	"github.com/zephyrtronium/qubit/units"
)

const continuationPrompt = ".. "

// Session is the state of one interactive session: a retained Env and the
// running total of the lines evaluated in it.
type Session struct {
	env    *qubit.Env
	format qubit.Format
	out    io.Writer
	log    *logger.Logger
	total  float64
	count  int
}

// NewSession creates a session writing results to out. A nil env starts
// empty, and a nil log discards.
func NewSession(env *qubit.Env, f qubit.Format, out io.Writer, log *logger.Logger) *Session {
	if env == nil {
		env = qubit.NewEnv()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Session{env: env, format: f, out: out, log: log}
}

// Env returns the session's environment.
func (s *Session) Env() *qubit.Env {
	return s.env
}

// Total returns the sum of the finite results evaluated so far.
func (s *Session) Total() float64 {
	return s.total
}

// Handle processes one complete input line and reports whether the session
// should end.
func (s *Session) Handle(line string) (quit bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false
	case trimmed == "exit" || trimmed == "quit":
		return true
	case strings.HasPrefix(trimmed, ":"):
		s.command(trimmed)
		return false
	}
	s.count++
	st, err := qubit.ParseStatement(trimmed)
	if err != nil {
		s.log.Debug("line %q: %v", trimmed, err)
		fmt.Fprintln(s.out, s.format.Number(math.NaN()))
		return false
	}
	v := s.env.Exec(st)
	if st.Kind == qubit.DefineStatement {
		fmt.Fprintf(s.out, "defined %v\n", s.env.Function(st.Name))
		return false
	}
	if err := s.env.Err(); err != nil {
		s.log.Debug("line %q: %v", trimmed, err)
	}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		s.total += v
	}
	fmt.Fprintln(s.out, s.format.Number(v))
	return false
}

func (s *Session) command(cmd string) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  :vars            show variables")
		fmt.Fprintln(s.out, "  :funcs           show user functions")
		fmt.Fprintln(s.out, "  :units [CAT]     show unit categories, or the units of CAT")
		fmt.Fprintln(s.out, "  :total           show the sum of results so far")
		fmt.Fprintln(s.out, "  :reset           forget variables, functions, and the total")
		fmt.Fprintln(s.out, "  exit, quit       leave")
	case ":vars":
		vars := s.env.Vars()
		if len(vars) == 0 {
			fmt.Fprintln(s.out, "(no variables)")
		}
		for _, name := range vars {
			v, _ := s.env.Lookup(name)
			fmt.Fprintf(s.out, "  %s = %s\n", name, s.format.Number(v))
		}
	case ":funcs":
		funcs := s.env.Funcs()
		if len(funcs) == 0 {
			fmt.Fprintln(s.out, "(no functions)")
		}
		for _, name := range funcs {
			fmt.Fprintf(s.out, "  %v\n", s.env.Function(name))
		}
	case ":units":
		s.listUnits(fields[1:])
	case ":total":
		fmt.Fprintf(s.out, "total: %s (%d lines)\n", s.format.Number(s.total), s.count)
	case ":reset":
		s.env.Reset()
		s.total, s.count = 0, 0
		fmt.Fprintln(s.out, "reset")
	default:
		fmt.Fprintf(s.out, "unknown command %s (type :help for commands)\n", fields[0])
	}
}

func (s *Session) listUnits(args []string) {
	if len(args) == 0 {
		for _, c := range units.Categories() {
			fmt.Fprintf(s.out, "  %s\n", c)
		}
		return
	}
	for _, c := range units.Categories() {
		if strings.EqualFold(c.String(), args[0]) {
			for _, u := range c.Units() {
				fmt.Fprintf(s.out, "  %s\n", u)
			}
			return
		}
	}
	fmt.Fprintf(s.out, "unknown category %s\n", args[0])
}

// Complete returns the possible completions of the last word of line, each
// as a whole replacement line.
func (s *Session) Complete(line string) []string {
	start := wordStart(line)
	word := line[start:]
	if word == "" {
		return nil
	}
	head := line[:start]
	var r []string
	add := func(cands []string, fold bool) {
		for _, c := range cands {
			p := word
			if fold {
				p = strings.ToUpper(p)
			}
			if strings.HasPrefix(c, p) && c != p {
				r = append(r, head+c)
			}
		}
	}
	add(s.env.Vars(), false)
	add(s.env.Funcs(), false)
	add(qubit.Builtins(), false)
	add(qubit.Constants(), false)
	add(unitNames(), true)
	return r
}

// wordStart returns the byte offset of the identifier or unit name that ends
// s.
func wordStart(s string) int {
	i := len(s)
	for i > 0 {
		b := s[i-1]
		if b < 0x80 && !isWordRune(rune(b)) {
			break
		}
		i--
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func unitNames() []string {
	all := units.All()
	r := make([]string, len(all))
	for i, u := range all {
		r[i] = u.String()
	}
	return r
}

// needsMoreInput reports whether input has unclosed brackets.
func needsMoreInput(input string) bool {
	return strings.Count(input, "(") > strings.Count(input, ")")
}

// Options configures Run.
type Options struct {
	// Prompt is the primary prompt.
	Prompt string
	// History is the history file. Empty means one in the temporary
	// directory.
	History string
	Format  qubit.Format
	// Env is the environment to evaluate in. Nil means a new one.
	Env *qubit.Env
	Log *logger.Logger
}

// Run runs an interactive session on the terminal until the user quits or
// closes input. Results are written to out.
func Run(out io.Writer, opts Options) error {
	s := NewSession(opts.Env, opts.Format, out, opts.Log)
	log := s.log

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetWordCompleter(func(l string, pos int) (string, []string, string) {
		head := l[:pos]
		cands := s.Complete(head)
		if len(cands) == 0 {
			return head, nil, l[pos:]
		}
		start := wordStart(head)
		words := make([]string, len(cands))
		for i, c := range cands {
			words[i] = c[start:]
		}
		return head[:start], words, l[pos:]
	})

	history := opts.History
	if history == "" {
		history = filepath.Join(os.TempDir(), ".qubit_history")
	}
	if f, err := os.Open(history); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			log.Warn("reading history %s: %v", history, err)
		}
		f.Close()
	}
	defer func() {
		f, err := os.Create(history)
		if err != nil {
			log.Warn("saving history: %v", err)
			return
		}
		if _, err := line.WriteHistory(f); err != nil {
			log.Warn("saving history: %v", err)
		}
		f.Close()
	}()

	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}
	fmt.Fprintln(out, "qubit: type :help for commands, exit or Ctrl+D to quit")
	log.Info("session started")
	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			buf.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			log.Info("session ended after %d lines", s.count)
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(input)
		full := buf.String()
		if needsMoreInput(full) {
			continue
		}
		buf.Reset()
		if strings.TrimSpace(full) != "" {
			line.AppendHistory(full)
		}
		if s.Handle(full) {
			log.Info("session ended after %d lines", s.count)
			return nil
		}
	}
}

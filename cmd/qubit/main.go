package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/config"
	"github.com/zephyrtronium/qubit/internal/logger"
	"github.com/zephyrtronium/qubit/internal/repl"
	"github.com/zephyrtronium/qubit/internal/tui"
	"github.com/zephyrtronium/qubit/internal/watch"
)

var totalStyle = lipgloss.NewStyle().Bold(true)

// flags holds the command line.
type flags struct {
	inname, cfgname     string
	watchname           string
	loglevel, logfile   string
	given               []string
	prec                int
	group, echo, total  bool
	interactive, editor bool
	args                []string
}

func main() {
	log.SetFlags(0)
	var fl flags
	flag.StringVar(&fl.inname, "in", "", "input file (default stdin if no args given)")
	flag.Func("given", "name=value variable definition (any number of times)", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		fl.given = append(fl.given, s)
		return nil
	})
	flag.IntVar(&fl.prec, "p", 0, "significant digits of non-integral results (default from config)")
	flag.BoolVar(&fl.group, "group", false, "group the digits of results in thousands")
	flag.BoolVar(&fl.echo, "echo", false, "print parse trees")
	flag.BoolVar(&fl.total, "total", false, "print the total after the results")
	flag.BoolVar(&fl.interactive, "i", false, "start the interactive prompt")
	flag.BoolVar(&fl.editor, "tui", false, "start the full-screen editor")
	flag.StringVar(&fl.watchname, "watch", "", "evaluate `file` again whenever it changes")
	flag.StringVar(&fl.cfgname, "config", "", "configuration file (default $XDG_CONFIG_HOME/qubit/config.yaml)")
	flag.StringVar(&fl.loglevel, "log-level", "", "log level: debug, info, warn, error, none")
	flag.StringVar(&fl.logfile, "log-file", "", "append logs to `file`")
	flag.Parse()
	fl.args = flag.Args()

	cfg, err := loadConfig(fl)
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogLevel(), cfg.Log.File, "qubit")
	if err != nil {
		log.Fatal(err)
	}
	err = run(fl, cfg, lg)
	if err != nil {
		lg.Error("%v", err)
	}
	lg.Close()
	if err != nil {
		log.Fatal(err)
	}
}

// loadConfig loads the configuration file and applies the flags that
// override it.
func loadConfig(fl flags) (*config.Config, error) {
	cfg, err := config.Load(fl.cfgname, os.Getenv)
	if err != nil {
		return nil, err
	}
	if fl.prec != 0 {
		cfg.Format.Precision = fl.prec
	}
	if fl.group {
		cfg.Format.GroupDigits = true
	}
	if fl.loglevel != "" {
		cfg.Log.Level = fl.loglevel
	}
	if fl.logfile != "" {
		cfg.Log.File = fl.logfile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// givenEnv creates an environment holding the -given variables. Each
// definition is an assignment evaluated in order, so later ones may refer to
// earlier ones.
func givenEnv(given []string) (*qubit.Env, error) {
	env := qubit.NewEnv()
	for _, g := range given {
		s, err := qubit.ParseStatement(g)
		if err != nil {
			return nil, fmt.Errorf("bad variable definition %q: %w", g, err)
		}
		if s.Kind != qubit.AssignStatement {
			return nil, fmt.Errorf("bad variable definition %q: not name=value", g)
		}
		env.Exec(s)
		if err := env.Err(); err != nil {
			return nil, fmt.Errorf("setting %s: %w", s.Name, err)
		}
	}
	return env, nil
}

// run runs the mode the flags select.
func run(fl flags, cfg *config.Config, lg *logger.Logger) error {
	env, err := givenEnv(fl.given)
	if err != nil {
		return err
	}
	vars := make(map[string]float64)
	for _, name := range env.Vars() {
		vars[name], _ = env.Lookup(name)
	}
	envopts := []qubit.EnvOption{qubit.SetVars(vars)}
	f := cfg.QubitFormat()

	switch {
	case fl.editor:
		var text string
		if fl.inname != "" {
			text, err = readInput(fl.inname)
			if err != nil {
				return err
			}
		}
		r, err := tui.Run(tui.Options{
			Format:      f,
			Placeholder: cfg.TUI.Placeholder,
			Text:        text,
			Env:         envopts,
			Log:         lg.WithPrefix("tui"),
		})
		if err != nil {
			return err
		}
		if fl.total {
			printTotal(os.Stdout, f, r)
		}
		return nil

	case fl.watchname != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		w, err := watch.New(fl.watchname, f, func(r *qubit.Result, err error) {
			fmt.Println("--", fl.watchname)
			if err != nil {
				fmt.Println(err)
				return
			}
			printResult(os.Stdout, f, r, fl.echo, fl.total)
		}, lg.WithPrefix("watch"), envopts...)
		if err != nil {
			return err
		}
		return w.Run(ctx)

	case fl.interactive || fl.inname == "" && len(fl.args) == 0 && term.IsTerminal(int(os.Stdin.Fd())):
		return repl.Run(os.Stdout, repl.Options{
			Prompt:  cfg.REPL.Prompt,
			History: cfg.REPL.History,
			Format:  f,
			Env:     env,
			Log:     lg.WithPrefix("repl"),
		})

	default:
		var lines []string
		if fl.inname != "" || len(fl.args) == 0 {
			name := fl.inname
			if name == "" {
				name = "-"
			}
			text, err := readInput(name)
			if err != nil {
				return err
			}
			lines = append(lines, qubit.SplitLines(text)...)
		}
		lines = append(lines, fl.args...)
		r := env.EvalText(strings.Join(lines, "\n"), f)
		lg.Debug("evaluated %d lines", len(r.Lines))
		printResult(os.Stdout, f, r, fl.echo, fl.total)
		return nil
	}
}

// readInput reads the named file, or stdin for "-".
func readInput(name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	return string(b), err
}

func printResult(w io.Writer, f qubit.Format, r *qubit.Result, echo, total bool) {
	for _, l := range r.Lines {
		if echo {
			if s, err := qubit.ParseStatement(l.Source); err == nil {
				fmt.Fprintf(w, "%v : ", s)
			} else {
				fmt.Fprintf(w, "%v : ", err)
			}
		}
		fmt.Fprintln(w, l.Output)
	}
	if total {
		printTotal(w, f, r)
	}
}

func printTotal(w io.Writer, f qubit.Format, r *qubit.Result) {
	fmt.Fprintln(w, totalStyle.Render("total: "+f.Number(r.Total)))
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/monkey/pkg/evaluator"
	"github.com/thomasrohde/monkey/pkg/help"
	"github.com/thomasrohde/monkey/pkg/runtime"
)

const banner = "Monkey Programming Language !"

func (c *cli) cmdRepl(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(c.stderr, "usage: monkey repl")
		return exitUsage
	}

	if c.cfg.Banner {
		fmt.Fprintln(c.stdout, banner)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := c.cfg.HistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		f, err := os.Create(histPath)
		if err != nil {
			c.logger.Warn("cannot save history", "path", histPath, "err", err)
			return
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}()

	sessionOpts := []runtime.Option{runtime.WithLogger(c.logger), runtime.WithRunID("repl")}
	if tracePath := c.cfg.TracePath(); tracePath != "" {
		f, err := os.OpenFile(tracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			c.logger.Warn("tracing disabled", "path", tracePath, "err", err)
		} else {
			defer f.Close()
			sessionOpts = append(sessionOpts, runtime.WithTrace(runtime.NewTraceWriter(f).Write))
		}
	}

	r := &repl{
		session: runtime.New(sessionOpts...),
		prompt:  c.cfg.Prompt,
		readLine: func(prompt string) (string, error) {
			return ln.Prompt(prompt)
		},
		remember: ln.AppendHistory,
		out:      c.stdout,
		print:    c.printValue,
	}
	return r.loop()
}

// repl is the read-eval-print loop over one session.
type repl struct {
	session  *runtime.Session
	prompt   string
	readLine func(prompt string) (string, error)
	remember func(line string)
	out      io.Writer
	print    func(w io.Writer, v evaluator.Value)
}

func (r *repl) loop() int {
	for {
		line, err := r.readLine(r.prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return exitOK
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(r.out, err)
			return exitUsage
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		r.remember(line)

		if strings.HasPrefix(input, ":") {
			if r.command(input) {
				return exitOK
			}
			continue
		}

		val, err := r.session.Eval(line, "<repl>")
		if err != nil {
			var diagErr *runtime.DiagnosticError
			if errors.As(err, &diagErr) {
				for _, msg := range diagErr.Messages() {
					fmt.Fprintln(r.out, msg)
				}
				continue
			}
			fmt.Fprintln(r.out, err)
			continue
		}
		r.print(r.out, val)
	}
}

// command runs a colon command and reports whether the loop should end.
func (r *repl) command(input string) bool {
	switch strings.ToLower(input) {
	case ":quit", ":q", ":exit":
		return true
	case ":env":
		env := r.session.Env()
		for _, name := range env.Names() {
			val, _ := env.Get(name)
			fmt.Fprintf(r.out, "%s = %s\n", name, val.Inspect())
		}
	case ":help":
		fmt.Fprint(r.out, help.Topics["repl"])
	default:
		fmt.Fprintln(r.out, "unknown command. Type :help for commands or :quit to exit.")
	}
	return false
}

// Command monkey is the Monkey interpreter CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/thomasrohde/monkey/pkg/config"
	"github.com/thomasrohde/monkey/pkg/diagnostics"
	"github.com/thomasrohde/monkey/pkg/evaluator"
	"github.com/thomasrohde/monkey/pkg/help"
	"github.com/thomasrohde/monkey/pkg/runtime"
)

// Exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitParse      = 2
	exitErrorValue = 4
)

var errColor = color.New(color.FgRed)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	if code := c.loadConfig(); code != exitOK {
		return code
	}

	if len(args) == 0 {
		return c.cmdRepl([]string{"repl"})
	}

	cmd := args[0]
	switch cmd {
	case "repl":
		return c.cmdRepl(args)
	case "run":
		return c.cmdRun(args)
	case "check":
		return c.cmdCheck(args)
	case "fmt":
		return c.cmdFmt(args)
	case "trace":
		return c.cmdTrace(args)
	case "help", "--help", "-h":
		return c.cmdHelp(args[1:])
	case "config":
		return c.cmdConfig()
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprintln(stderr, "commands: repl, run, check, fmt, trace, help, config")
		return exitUsage
	}
}

func (c *cli) loadConfig() int {
	cwd, _ := os.Getwd()
	cfg, path, err := config.Load(cwd)
	if err != nil {
		c.printDiag(diagnostics.EConfig, err.Error(), false)
		return exitUsage
	}
	c.cfg = cfg
	c.cfgPath = path

	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}

	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	c.logger.Debug("config loaded", "path", path, "color", cfg.Color)
	return exitOK
}

func (c *cli) printDiag(code, msg string, pretty bool) {
	diag := diagnostics.MakeDiag(code, msg, nil, "")
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, pretty))
}

// printValue writes a value's canonical rendering. Errors print as their
// bare message, coloured when colour is enabled.
func (c *cli) printValue(w io.Writer, v evaluator.Value) {
	if evaluator.IsError(v) {
		fmt.Fprintln(w, errColor.Sprint(v.Inspect()))
		return
	}
	fmt.Fprintln(w, v.Inspect())
}

func (c *cli) cmdRun(args []string) int {
	opts, optind, err := getopt.Getopts(args, "jpdt:")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		fmt.Fprintln(c.stderr, "usage: monkey run [-j] [-p] [-d] [-t trace.jsonl] <file|->")
		return exitUsage
	}

	jsonOutput := false
	pretty := false
	debugParse := false
	tracePath := c.cfg.TracePath()
	for _, opt := range opts {
		switch opt.Option {
		case 'j':
			jsonOutput = true
		case 'p':
			pretty = true
		case 'd':
			debugParse = true
		case 't':
			tracePath = opt.Value
		}
	}

	rest := args[optind:]
	if len(rest) != 1 {
		fmt.Fprintln(c.stderr, "usage: monkey run [-j] [-p] [-d] [-t trace.jsonl] <file|->")
		return exitUsage
	}

	source, filename, exitCode := c.readSource(rest[0], pretty)
	if exitCode != exitOK {
		return exitCode
	}

	sessionOpts := []runtime.Option{runtime.WithLogger(c.logger), runtime.WithRunID("run")}
	var tw *runtime.TraceWriter
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			c.printDiag(diagnostics.EIO, fmt.Sprintf("cannot write trace file: %s", tracePath), pretty)
			return exitUsage
		}
		defer f.Close()
		tw = runtime.NewTraceWriter(f)
		sessionOpts = append(sessionOpts, runtime.WithTrace(tw.Write))
	}
	session := runtime.New(sessionOpts...)

	if debugParse {
		if tree, err := session.Parenthesize(source, filename); err == nil {
			fmt.Fprintln(c.stdout, tree)
		}
	}

	val, evalErr := session.Eval(source, filename)
	if tw != nil {
		if err := tw.Err(); err != nil {
			c.logger.Warn("trace incomplete", "path", tracePath, "err", err)
		}
	}
	if evalErr != nil {
		var diagErr *runtime.DiagnosticError
		if errors.As(evalErr, &diagErr) {
			fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, pretty))
			return exitParse
		}
		fmt.Fprintln(c.stderr, evalErr.Error())
		return exitUsage
	}

	if jsonOutput {
		jsonBytes, err := evaluator.ValueToJSON(val)
		if err != nil {
			fmt.Fprintf(c.stderr, "error serializing result: %s\n", err)
			return exitErrorValue
		}
		fmt.Fprintln(c.stdout, string(jsonBytes))
	} else {
		c.printValue(c.stdout, val)
	}

	if evaluator.IsError(val) {
		return exitErrorValue
	}
	return exitOK
}

func (c *cli) cmdCheck(args []string) int {
	opts, optind, err := getopt.Getopts(args, "p")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		fmt.Fprintln(c.stderr, "usage: monkey check [-p] <file|->")
		return exitUsage
	}
	pretty := false
	for _, opt := range opts {
		if opt.Option == 'p' {
			pretty = true
		}
	}

	rest := args[optind:]
	if len(rest) != 1 {
		fmt.Fprintln(c.stderr, "usage: monkey check [-p] <file|->")
		return exitUsage
	}

	source, filename, exitCode := c.readSource(rest[0], pretty)
	if exitCode != exitOK {
		return exitCode
	}

	diags := runtime.New(runtime.WithLogger(c.logger)).Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, pretty))
		return exitParse
	}

	if pretty {
		fmt.Fprintln(c.stdout, "No errors found.")
	} else {
		fmt.Fprintln(c.stdout, "[]")
	}
	return exitOK
}

func (c *cli) cmdFmt(args []string) int {
	opts, optind, err := getopt.Getopts(args, "w")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		fmt.Fprintln(c.stderr, "usage: monkey fmt [-w] <file>")
		return exitUsage
	}
	write := false
	for _, opt := range opts {
		if opt.Option == 'w' {
			write = true
		}
	}

	rest := args[optind:]
	if len(rest) != 1 || (write && rest[0] == "-") {
		fmt.Fprintln(c.stderr, "usage: monkey fmt [-w] <file>")
		return exitUsage
	}
	file := rest[0]

	source, filename, exitCode := c.readSource(file, false)
	if exitCode != exitOK {
		return exitCode
	}

	formatted, fmtErr := runtime.New(runtime.WithLogger(c.logger)).Format(source, filename)
	if fmtErr != nil {
		var diagErr *runtime.DiagnosticError
		if errors.As(fmtErr, &diagErr) {
			fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, false))
			return exitParse
		}
		fmt.Fprintln(c.stderr, fmtErr.Error())
		return exitParse
	}

	if write {
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			c.printDiag(diagnostics.EIO, fmt.Sprintf("cannot write file: %s", file), false)
			return exitUsage
		}
		return exitOK
	}
	fmt.Fprint(c.stdout, formatted)
	return exitOK
}

func (c *cli) cmdTrace(args []string) int {
	opts, optind, err := getopt.Getopts(args, "x")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		fmt.Fprintln(c.stderr, "usage: monkey trace [-x] <file.jsonl>")
		return exitUsage
	}
	textOutput := false
	for _, opt := range opts {
		if opt.Option == 'x' {
			textOutput = true
		}
	}

	rest := args[optind:]
	if len(rest) != 1 {
		fmt.Fprintln(c.stderr, "usage: monkey trace [-x] <file.jsonl>")
		return exitUsage
	}
	file := rest[0]

	f, err := os.Open(file)
	if err != nil {
		c.printDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), false)
		return exitUsage
	}
	defer f.Close()

	events, err := evaluator.ReadTraceEvents(f)
	if err != nil {
		c.printDiag(diagnostics.EIO, fmt.Sprintf("%s: %s", file, err), false)
		return exitUsage
	}
	summary := runtime.SummarizeTrace(events)

	if textOutput {
		runtime.WriteSummaryText(c.stdout, summary)
		return exitOK
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(c.stdout, string(b))
	return exitOK
}

func (c *cli) cmdHelp(args []string) int {
	topic := ""
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if topic == "" {
		fmt.Fprint(c.stdout, help.QUICKREF)
		return exitOK
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return exitUsage
	}
	fmt.Fprint(c.stdout, content)
	return exitOK
}

func (c *cli) cmdConfig() int {
	if c.cfgPath != "" {
		fmt.Fprintf(c.stdout, "# loaded from %s\n", c.cfgPath)
	} else {
		fmt.Fprintln(c.stdout, "# built-in defaults")
	}
	if err := c.cfg.Encode(c.stdout); err != nil {
		c.printDiag(diagnostics.EConfig, err.Error(), false)
		return exitUsage
	}
	return exitOK
}

func (c *cli) readSource(file string, pretty bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			fmt.Fprintf(c.stderr, "error reading stdin: %s\n", err)
			return "", "", exitUsage
		}
		return string(data), "<stdin>", exitOK
	}

	source, err := os.ReadFile(file)
	if err != nil {
		c.printDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), pretty)
		return "", "", exitUsage
	}
	return string(source), file, exitOK
}

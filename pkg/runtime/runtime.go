// Package runtime provides the top-level Monkey runtime orchestrator.
package runtime

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/thomasrohde/monkey/pkg/diagnostics"
	"github.com/thomasrohde/monkey/pkg/evaluator"
	"github.com/thomasrohde/monkey/pkg/formatter"
	"github.com/thomasrohde/monkey/pkg/lexer"
	"github.com/thomasrohde/monkey/pkg/parser"
	"github.com/thomasrohde/monkey/pkg/validator"
)

// Session owns one top-level environment. Every input evaluated through a
// session sees the bindings made by the inputs before it.
type Session struct {
	env    *evaluator.Env
	logger *slog.Logger
	runID  string
	trace  func(event evaluator.TraceEvent)
	runs   int
}

// Option is a functional option for configuring the Session.
type Option func(*Session)

// WithEnv evaluates into an existing environment instead of a fresh one.
func WithEnv(env *evaluator.Env) Option {
	return func(s *Session) {
		s.env = env
	}
}

// WithLogger sets the logger for parse and evaluation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithRunID sets the run ID prefix for trace events.
func WithRunID(id string) Option {
	return func(s *Session) {
		s.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(s *Session) {
		s.trace = fn
	}
}

// New creates a new Session with the given options.
func New(opts ...Option) *Session {
	s := &Session{
		env:    evaluator.NewEnv(),
		logger: slog.Default(),
		runID:  "cli",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Env returns the session environment.
func (s *Session) Env() *evaluator.Env {
	return s.env
}

// Eval parses and evaluates one input. Parse failures are returned as a
// *DiagnosticError and nothing is evaluated; evaluation failures are
// returned as *evaluator.Error values with a nil error.
func (s *Session) Eval(source, filename string) (evaluator.Value, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		s.logger.Debug("parse failed", "file", filename, "errors", len(diags))
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	s.runs++
	runID := fmt.Sprintf("%s-%d", s.runID, s.runs)
	val := evaluator.EvalWithOptions(program, s.env, evaluator.Options{
		Trace: s.trace,
		RunID: runID,
	})
	s.logger.Debug("evaluated", "file", filename, "run", runID,
		"statements", len(program.Statements), "type", val.Type())
	return val, nil
}

// Check parses and validates a program without evaluating it. Names already
// bound in the session count as bound.
func (s *Session) Check(source, filename string) []diagnostics.Diagnostic {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.ValidateWith(program, s.env.Names())
}

// Format parses and formats a Monkey program.
func (s *Session) Format(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Format(program), nil
}

// Parenthesize parses a program and renders its fully parenthesised form.
func (s *Session) Parenthesize(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Parenthesize(program), nil
}

// Evaluate runs the bare pipeline: lex, parse, and evaluate source in env.
// When the parser reports errors they are returned in order and nothing is
// evaluated.
func Evaluate(source string, env *evaluator.Env) (evaluator.Value, []string) {
	p := parser.New(lexer.New(source, "<input>"))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}
	return evaluator.Eval(program, env), nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the bare diagnostic messages, as the REPL prints them.
func (e *DiagnosticError) Messages() []string {
	return diagnostics.Messages(e.Diagnostics)
}

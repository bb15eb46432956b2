// Package diagnostics defines Monkey diagnostic types for lex/parse/validation errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/thomasrohde/monkey/pkg/ast"
)

// Diagnostic code constants.
const (
	ELex         = "E_LEX"
	EParse       = "E_PARSE"
	EUnbound     = "E_UNBOUND"
	EUnreachable = "E_UNREACHABLE"
	EIO          = "E_IO"
	EConfig      = "E_CONFIG"
)

// Diagnostic represents a lex, parse, or validation diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

var (
	codeColor = color.New(color.FgRed, color.Bold)
	locColor  = color.New(color.FgCyan)
	hintColor = color.New(color.FgYellow)
)

// FormatDiagnostic formats a single diagnostic for display.
// Pretty output is colourised unless color.NoColor is set.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	out := fmt.Sprintf("%s: %s\n  --> %s",
		codeColor.Sprintf("error[%s]", d.Code), d.Message, locColor.Sprint(loc))
	if d.Hint != "" {
		out += fmt.Sprintf("\n  %s %s", hintColor.Sprint("hint:"), d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// Messages returns the bare message text of each diagnostic, in order.
func Messages(diags []Diagnostic) []string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return msgs
}

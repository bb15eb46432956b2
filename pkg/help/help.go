// Package help holds the Monkey quick reference and help topics.
package help

import (
	"fmt"
	"sort"
	"strings"
)

// Version is the language and CLI version shown in the quick reference.
const Version = "v0.1"

// QUICKREF is printed by `monkey help` with no topic.
var QUICKREF = `Monkey ` + Version + ` quick reference

  let x = 5;                 bind a name (rebinding is allowed)
  return x * 2;              stop the program with a value
  if (x > 1) { x } else { 0 }
  -x   !x                    prefix operators
  + - * /  < > == !=         infix operators, usual precedence

Values: integers (64-bit), true, false, null. Errors are values too.

Commands:
  monkey [repl]              interactive session
  monkey run <file|->        evaluate a file
  monkey check <file>        parse and validate without running
  monkey fmt <file>          print canonical source
  monkey trace <file.jsonl>  summarise a trace written by run -t
  monkey config              print the effective configuration
  monkey help <topic>        topics: syntax, types, truthiness, operators, errors, repl
`

// TopicList is the display order of help topics.
var TopicList = []string{"syntax", "types", "truthiness", "operators", "errors", "repl"}

// Topics maps topic names to their help text.
var Topics = map[string]string{
	"syntax": `Syntax

  Program    := Statement*
  Statement  := "let" IDENT "=" Expr [";"]
              | "return" Expr [";"]
              | Expr [";"]
  Expr       := INT | "true" | "false" | IDENT
              | ("!" | "-") Expr
              | Expr OP Expr
              | "(" Expr ")"
              | "if" "(" Expr ")" Block ["else" Block]
  Block      := "{" Statement* "}"

Identifiers start with a letter or underscore and continue with letters,
digits and underscores. Integers are runs of decimal digits. Whitespace
is insignificant; a trailing semicolon is optional.
`,

	"types": `Types

  INTEGER   64-bit signed, arithmetic wraps on overflow
  BOOLEAN   true, false
  NULL      result of an if without a taken branch, or an empty program
  ERROR     produced by failed operations; printed as its message

Blocks do not open a new scope: a let inside an if block binds in the
enclosing environment.
`,

	"truthiness": `Truthiness

false, null and 0 are falsy. Every other value is truthy.

  !0      true
  !5      false
  !!5     true
  if (0) { 1 }        null
  if (2) { 1 }        1
`,

	"operators": OperatorIndex(),

	"errors": `Errors

Syntax errors are reported before anything runs and nothing is evaluated:

  expected next token to be X, got Y instead
  no prefix parse function for X
  could not parse "LIT" as integer

Evaluation errors are values. The first one stops the program:

  type mismatch: INTEGER + BOOLEAN
  unknown operator: BOOLEAN + BOOLEAN
  unknown operator: -BOOLEAN
  identifier not found: NAME
  division by zero: L / R

` + "`monkey run`" + ` exits with status 2 for syntax errors and 4 when the
result is an error value.
`,

	"repl": `REPL

Start with ` + "`monkey`" + ` or ` + "`monkey repl`" + `. Each line is parsed and evaluated
in one session environment, so bindings persist between lines.

  :env     list the current bindings
  :quit    leave (Ctrl+D works too)
  Ctrl+C   abandon the current line

History is kept in history_file (default ~/.monkey_history). Prompt, colour
and banner are set in .monkey.yaml or ~/.monkey/config.yaml.
`,
}

type operatorInfo struct {
	op       string
	operands string
	result   string
}

var operators = []operatorInfo{
	{"-x", "INTEGER", "INTEGER"},
	{"!x", "any", "BOOLEAN"},
	{"a + b", "INTEGER", "INTEGER"},
	{"a - b", "INTEGER", "INTEGER"},
	{"a * b", "INTEGER", "INTEGER"},
	{"a / b", "INTEGER", "INTEGER (truncated)"},
	{"a < b", "INTEGER", "BOOLEAN"},
	{"a > b", "INTEGER", "BOOLEAN"},
	{"a == b", "INTEGER, BOOLEAN", "BOOLEAN"},
	{"a != b", "INTEGER, BOOLEAN", "BOOLEAN"},
}

// OperatorIndex renders the operator table, loosest binding last.
func OperatorIndex() string {
	var b strings.Builder
	b.WriteString("Operators\n\n")
	fmt.Fprintf(&b, "  %-8s %-18s %s\n", "form", "operands", "result")
	for _, o := range operators {
		fmt.Fprintf(&b, "  %-8s %-18s %s\n", o.op, o.operands, o.result)
	}
	b.WriteString("\nPrecedence, tightest first: prefix, * /, + -, < >, == !=.\n")
	b.WriteString("Infix operators associate to the left.\n")
	fmt.Fprintf(&b, "Total: %d operators\n", len(operators))
	return b.String()
}

// MatchTopic resolves an exact topic name or an unambiguous prefix.
func MatchTopic(query string) (string, string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}

	var matches []string
	if query != "" {
		for _, name := range TopicList {
			if strings.HasPrefix(name, query) {
				matches = append(matches, name)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", "", fmt.Errorf("unknown help topic: %s", query)
	case 1:
		return matches[0], Topics[matches[0]], nil
	default:
		sort.Strings(matches)
		return "", "", fmt.Errorf("ambiguous help topic %q: %s", query, strings.Join(matches, ", "))
	}
}

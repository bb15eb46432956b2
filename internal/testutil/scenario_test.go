package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	src := "cmd: [run, $PROGRAM]\nprogram: 1 + 2\nexpect:\n  exit_code: 0\n  stdout_text: \"3\\n\"\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "sample" || s.Expect.StdoutText != "3\n" {
		t.Errorf("got %+v", s)
	}

	args, err := s.Args(dir)
	if err != nil {
		t.Fatal(err)
	}
	if args[0] != "run" || args[1] != filepath.Join(dir, "sample.mk") {
		t.Errorf("got args %v", args)
	}
	data, err := os.ReadFile(args[1])
	if err != nil || string(data) != "1 + 2" {
		t.Errorf("program file: %q, %v", data, err)
	}
}

func TestLoadScenarioRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("cmd: [run]\nexpect:\n  exitcode: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil || !strings.Contains(err.Error(), "exitcode") {
		t.Errorf("expected unknown field error, got %v", err)
	}
}

func TestIsSubset(t *testing.T) {
	actual := []any{
		map[string]any{"code": "E_PARSE", "message": "m", "span": map[string]any{"startLine": 1.0}},
		map[string]any{"code": "E_LEX"},
	}
	tests := []struct {
		name     string
		expected any
		want     bool
	}{
		{"prefix", []any{map[string]any{"code": "E_PARSE"}}, true},
		{"nested", []any{map[string]any{"span": map[string]any{"startLine": 1.0}}}, true},
		{"wrong order", []any{map[string]any{"code": "E_LEX"}}, false},
		{"too long", []any{nil, nil, nil}, false},
		{"missing key", []any{map[string]any{"hint": "h"}}, false},
		{"type differs", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubset(tt.expected, actual); got != tt.want {
				t.Errorf("IsSubset = %v, want %v", got, tt.want)
			}
		})
	}
}

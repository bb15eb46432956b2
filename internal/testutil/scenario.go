// Package testutil provides shared test helpers for Monkey CLI tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the shared scenario directory, relative to cmd/monkey.
const ScenariosDir = "../../testdata/scenarios"

// ProgramArg in a scenario cmd is replaced with the path of the program file.
const ProgramArg = "$PROGRAM"

// Scenario is one CLI invocation and its expected outcome.
type Scenario struct {
	Name    string         `yaml:"-"`
	Cmd     []string       `yaml:"cmd"`
	Program string         `yaml:"program,omitempty"`
	Stdin   string         `yaml:"stdin,omitempty"`
	Tags    []string       `yaml:"tags,omitempty"`
	Expect  ExpectedResult `yaml:"expect"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	ExitCode         int    `yaml:"exit_code"`
	StdoutText       string `yaml:"stdout_text,omitempty"`
	StdoutContains   string `yaml:"stdout_contains,omitempty"`
	StdoutJSON       any    `yaml:"stdout_json,omitempty"`
	StderrContains   string `yaml:"stderr_contains,omitempty"`
	StderrJSONSubset any    `yaml:"stderr_json_subset,omitempty"`
}

// LoadScenario loads one scenario file. Unknown keys are an error.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(s.Cmd) == 0 {
		return nil, fmt.Errorf("%s: cmd is required", path)
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &s, nil
}

// ListScenarios returns all scenario files under root, sorted by name.
func ListScenarios(root string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(root, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Args writes the scenario program into dir and returns the command line
// with ProgramArg substituted.
func (s *Scenario) Args(dir string) ([]string, error) {
	args := make([]string, len(s.Cmd))
	copy(args, s.Cmd)
	if s.Program == "" {
		return args, nil
	}
	path := filepath.Join(dir, s.Name+".mk")
	if err := os.WriteFile(path, []byte(s.Program), 0644); err != nil {
		return nil, err
	}
	for i, a := range args {
		if a == ProgramArg {
			args[i] = path
		}
	}
	return args, nil
}

// ToJSONValue converts a decoded YAML value into the shape encoding/json
// produces, so it can be compared against parsed output.
func ToJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsSubset reports whether expected is contained in actual. Maps match on
// the expected keys only; arrays match element-wise on a prefix.
func IsSubset(expected, actual any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, ev := range e {
			av, exists := a[k]
			if !exists || !IsSubset(ev, av) {
				return false
			}
		}
		return true

	case []any:
		a, ok := actual.([]any)
		if !ok || len(e) > len(a) {
			return false
		}
		for i, ev := range e {
			if !IsSubset(ev, a[i]) {
				return false
			}
		}
		return true

	case nil:
		return actual == nil

	default:
		return expected == actual
	}
}

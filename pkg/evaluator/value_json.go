package evaluator

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ValueToJSON marshals a Value to JSON bytes.
// Errors become {"error": message}; return wrappers are unwrapped.
func ValueToJSON(v Value) ([]byte, error) {
	return json.Marshal(valueToRaw(v))
}

func valueToRaw(v Value) any {
	switch val := v.(type) {
	case *Integer:
		return val.Value
	case *Boolean:
		return val.Value
	case *ReturnValue:
		return valueToRaw(val.Value)
	case *Error:
		return map[string]string{"error": val.Message}
	}
	return nil
}

// ValueToJSONString is a convenience that returns a string.
func ValueToJSONString(v Value) string {
	b, err := ValueToJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// TraceEventsToJSON encodes events as newline-delimited JSON, one event per line.
func TraceEventsToJSON(events []TraceEvent) ([]byte, error) {
	var b strings.Builder
	for _, e := range events {
		line, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode %s event: %w", e.Event, err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// ReadTraceEvents decodes newline-delimited JSON trace events. Blank lines
// are skipped; a malformed line is an error naming its line number.
func ReadTraceEvents(r io.Reader) ([]TraceEvent, error) {
	var events []TraceEvent
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e TraceEvent
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return events, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("read trace: %w", err)
	}
	return events, nil
}

package runtime

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/thomasrohde/monkey/pkg/evaluator"
)

// TraceWriter streams trace events to w as newline-delimited JSON.
type TraceWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewTraceWriter creates a TraceWriter on w.
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{enc: json.NewEncoder(w)}
}

// Write records one event. After the first failure later events are dropped
// and the failure is reported by Err.
func (tw *TraceWriter) Write(event evaluator.TraceEvent) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.err != nil {
		return
	}
	if err := tw.enc.Encode(event); err != nil {
		tw.err = fmt.Errorf("write trace event: %w", err)
	}
}

// Err returns the first write failure, if any.
func (tw *TraceWriter) Err() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.err
}

// TraceSummary aggregates the events of one trace file.
type TraceSummary struct {
	RunID       string  `json:"runId"`
	Runs        int     `json:"runs"`
	TotalEvents int     `json:"totalEvents"`
	Statements  int     `json:"statements"`
	Returns     int     `json:"returns"`
	Errors      int     `json:"errors"`
	LastError   string  `json:"lastError,omitempty"`
	ResultType  string  `json:"resultType,omitempty"`
	Result      string  `json:"result,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
	DurationMs  float64 `json:"durationMs"`
}

// SummarizeTrace computes a summary over events in order.
func SummarizeTrace(events []evaluator.TraceEvent) *TraceSummary {
	summary := &TraceSummary{}
	for _, event := range events {
		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case evaluator.TraceRunStart:
			summary.Runs++
			if summary.StartTime == "" {
				summary.StartTime = event.Timestamp
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.Timestamp
			summary.ResultType = event.Data["type"]
			summary.Result = event.Data["value"]
		case evaluator.TraceStmtStart:
			summary.Statements++
		case evaluator.TraceReturn:
			summary.Returns++
		case evaluator.TraceError:
			summary.Errors++
			summary.LastError = event.Data["value"]
		}
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := parseTime(summary.StartTime)
		end, err2 := parseTime(summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}
	return summary
}

// WriteSummaryText prints a human-readable summary.
func WriteSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Runs: %d\n", s.Runs)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements: %d (%d returns)\n", s.Statements, s.Returns)
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)
	if s.LastError != "" {
		fmt.Fprintf(w, "  last: %s\n", s.LastError)
	}
	if s.ResultType != "" {
		fmt.Fprintf(w, "Result: %s (%s)\n", s.Result, s.ResultType)
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

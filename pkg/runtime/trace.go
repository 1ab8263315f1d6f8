package runtime

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TraceWriter appends one JSON line per finished action to trace.jsonl.
// Each line is synced before Append returns, so an interrupted run keeps
// every action it completed.
type TraceWriter struct {
	f   *os.File
	enc *json.Encoder
}

// NewTraceWriter opens path for appending, creating it if needed.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &TraceWriter{f: f, enc: json.NewEncoder(f)}, nil
}

// Append records rec under runID.
func (tw *TraceWriter) Append(runID string, rec *ActionRecord) error {
	ev := TraceEvent{
		Type:      "action_result",
		Timestamp: time.Now(),
		RunID:     runID,
		Record:    rec,
	}
	if err := tw.enc.Encode(ev); err != nil {
		return fmt.Errorf("append %s to trace: %w", rec.Name, err)
	}
	return tw.f.Sync()
}

func (tw *TraceWriter) Close() error {
	return tw.f.Close()
}

// WriteReport stores the finished run as run.yaml.
func WriteReport(report *RunReport, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

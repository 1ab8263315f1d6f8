// Package runtime drives a pipeline run: the confirmation gate, the action
// executor, the error policy and the engine that sequences them.
package runtime

import (
	"time"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

// Action record statuses.
const (
	StatusPassed  = "passed"
	StatusTainted = "tainted" // ran clean by exit code but reported a diagnostic
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusMissing = "missing" // a required artifact was absent
	StatusAborted = "aborted"
)

// ExitCannotStart is the exit code recorded when the runner could not start
// the action at all, matching the shell convention for "command not found".
const ExitCannotStart = 127

// ExecutionResult is produced exactly once per executed action and consumed
// by the error policy.
type ExecutionResult struct {
	ExitCode int
	Output   string
	Elapsed  time.Duration
	// Timed is set when elapsed time was reported to the operator.
	Timed bool
}

// ActionRecord is the per-action entry of a run report and trace.
type ActionRecord struct {
	Name      string        `yaml:"name"                json:"name"`
	Status    string        `yaml:"status"              json:"status"`
	Decision  string        `yaml:"decision,omitempty"  json:"decision,omitempty"`
	ExitCode  *int          `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
	Elapsed   time.Duration `yaml:"elapsed,omitempty"   json:"elapsed,omitempty"`
	StartedAt time.Time     `yaml:"started_at"          json:"started_at"`
	EndedAt   time.Time     `yaml:"ended_at"            json:"ended_at"`
	Message   string        `yaml:"message,omitempty"   json:"message,omitempty"`
}

// TraceEvent wraps an ActionRecord for JSONL trace output.
type TraceEvent struct {
	Type      string        `json:"type"` // action_result
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Record    *ActionRecord `json:"record"`
}

// RunReport records a whole pipeline run. Written as run.yaml when recording.
type RunReport struct {
	RunID     string                `yaml:"run_id"     json:"run_id"`
	Outcome   string                `yaml:"outcome"    json:"outcome"` // completed, aborted
	StartedAt string                `yaml:"started_at" json:"started_at"`
	EndedAt   string                `yaml:"ended_at"   json:"ended_at"`
	Config    schema.PipelineConfig `yaml:"config"     json:"config"`
	Vars      map[string]any        `yaml:"vars,omitempty" json:"vars,omitempty"`
	Summary   StepsSummary          `yaml:"summary"    json:"summary"`
	Actions   []*ActionRecord       `yaml:"actions"    json:"actions"`
}

// StepsSummary counts action records by status.
type StepsSummary struct {
	Total   int `yaml:"total"   json:"total"`
	Passed  int `yaml:"passed"  json:"passed"`
	Tainted int `yaml:"tainted" json:"tainted"`
	Failed  int `yaml:"failed"  json:"failed"`
	Skipped int `yaml:"skipped" json:"skipped"`
	Missing int `yaml:"missing" json:"missing"`
	Aborted int `yaml:"aborted" json:"aborted"` // declined at the gate, never ran
}

func (s *StepsSummary) add(status string) {
	s.Total++
	switch status {
	case StatusPassed:
		s.Passed++
	case StatusTainted:
		s.Tainted++
	case StatusFailed:
		s.Failed++
	case StatusAborted:
		s.Aborted++
	case StatusSkipped:
		s.Skipped++
	case StatusMissing:
		s.Missing++
	}
}

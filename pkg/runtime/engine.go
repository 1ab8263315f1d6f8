package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/google/uuid"
	"github.com/ormasoftchile/shipit/pkg/output"
	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/schema"
)

// ErrAborted is returned by Run when the operator or the error policy
// stopped the pipeline.
var ErrAborted = errors.New("pipeline aborted")

// NewRunID creates a run ID in format YYYYMMDDTHHmmss-xxxxxxxx.
func NewRunID() string {
	return time.Now().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

// Engine drives an ordered list of actions through the gate, the executor
// and the error policy.
type Engine struct {
	RunID   string
	Config  schema.PipelineConfig
	Vars    map[string]any // environment for when: guards
	Console *output.Console

	// BaseDir is where trace.jsonl and run.yaml are written. Empty disables recording.
	BaseDir string

	gate     *Gate
	executor *Executor
	policy   *Policy
	trace    *TraceWriter
	report   *RunReport
}

// NewEngine creates an engine. The configuration is copied and never
// modified afterwards.
func NewEngine(cfg schema.PipelineConfig, runner providers.Runner, prompter providers.Prompter, console *output.Console) *Engine {
	return &Engine{
		RunID:    NewRunID(),
		Config:   cfg,
		Vars:     make(map[string]any),
		Console:  console,
		gate:     NewGate(cfg, prompter, console),
		executor: NewExecutor(cfg, runner, console),
		policy:   NewPolicy(cfg, DefaultClassifier(), prompter, console),
	}
}

// Record enables trace and report output under dir/<run-id>/.
func (e *Engine) Record(dir string) error {
	e.BaseDir = filepath.Join(dir, e.RunID)
	if err := os.MkdirAll(e.BaseDir, 0755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	tw, err := NewTraceWriter(filepath.Join(e.BaseDir, "trace.jsonl"))
	if err != nil {
		return fmt.Errorf("create trace writer: %w", err)
	}
	e.trace = tw
	return nil
}

// Run iterates the actions once, in order. It returns ErrAborted when an
// Abort decision stops the run; the report is returned in every case.
func (e *Engine) Run(ctx context.Context, actions []schema.Action) (*RunReport, error) {
	e.report = &RunReport{
		RunID:     e.RunID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    e.Config,
		Vars:      e.Vars,
	}
	if e.trace != nil {
		defer e.trace.Close()
	}

	err := e.run(ctx, actions)

	e.report.EndedAt = time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		e.report.Outcome = "aborted"
	} else {
		e.report.Outcome = "completed"
	}
	e.Console.Summary("Summary", summaryRows(e.report.Actions))

	if errors.Is(err, ErrAborted) {
		e.Console.Error("%v", err)
	} else if err == nil {
		e.Console.Success("pipeline completed (%d ran, %d skipped)", e.report.Summary.Passed+e.report.Summary.Tainted+e.report.Summary.Failed, e.report.Summary.Skipped+e.report.Summary.Missing)
	}

	if e.BaseDir != "" {
		if werr := WriteReport(e.report, filepath.Join(e.BaseDir, "run.yaml")); werr != nil {
			e.Console.Warn("failed to write run report: %v", werr)
		} else {
			e.Console.Notice("run report: %s", filepath.Join(e.BaseDir, "run.yaml"))
		}
	}
	return e.report, err
}

func (e *Engine) run(ctx context.Context, actions []schema.Action) error {
	planned, err := e.selectActions(actions)
	if err != nil {
		return err
	}

	for i, action := range planned {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w before %s: %v", ErrAborted, action.Name, err)
		}

		e.Console.Status("[%d/%d] %s", i+1, len(planned), action.Description)
		rec := &ActionRecord{Name: action.Name, StartedAt: time.Now()}

		if missing := missingRequirements(action.Requires); len(missing) > 0 {
			e.Console.Warn("%s: expected artifact %s is missing, nothing to do", action.Name, strings.Join(missing, ", "))
			rec.Status = StatusMissing
			rec.Message = "missing " + strings.Join(missing, ", ")
			if err := e.finish(rec); err != nil {
				return err
			}
			continue
		}

		decision, err := e.gate.Decide(action)
		if err != nil {
			return err
		}
		rec.Decision = decision.String()
		switch decision {
		case schema.Skip:
			e.Console.Notice("skipped %s", action.Name)
			rec.Status = StatusSkipped
			if err := e.finish(rec); err != nil {
				return err
			}
			continue
		case schema.Abort:
			rec.Status = StatusAborted
			rec.Message = "declined at confirmation"
			if err := e.finish(rec); err != nil {
				return err
			}
			return fmt.Errorf("%w at %s", ErrAborted, action.Name)
		}

		result := e.executor.Execute(ctx, action)
		exitCode := result.ExitCode
		rec.ExitCode = &exitCode
		rec.Elapsed = result.Elapsed

		outcome, decision, err := e.policy.Resolve(action, result)
		if err != nil {
			return err
		}
		rec.Decision = decision.String()
		switch outcome {
		case schema.Clean:
			rec.Status = StatusPassed
			e.Console.Success("%s", action.Name)
		case schema.Tainted:
			rec.Status = StatusTainted
		case schema.Failed:
			rec.Status = StatusFailed
		}
		if err := e.finish(rec); err != nil {
			return err
		}

		if decision == schema.Abort {
			return fmt.Errorf("%w at %s", ErrAborted, action.Name)
		}
	}
	return nil
}

// selectActions drops the actions whose when: guard is false.
func (e *Engine) selectActions(actions []schema.Action) ([]schema.Action, error) {
	var planned []schema.Action
	for _, action := range actions {
		enabled, err := e.evalCondition(action.When)
		if err != nil {
			return nil, fmt.Errorf("action %q when: %w", action.Name, err)
		}
		if !enabled {
			e.Console.Debug("%s not configured (when: %s), leaving it out", action.Name, action.When)
			continue
		}
		planned = append(planned, action)
	}
	return planned, nil
}

// finish stamps the record, appends it to the report and the trace.
func (e *Engine) finish(rec *ActionRecord) error {
	rec.EndedAt = time.Now()
	e.report.Actions = append(e.report.Actions, rec)
	e.report.Summary.add(rec.Status)
	if e.trace != nil {
		if err := e.trace.Append(e.RunID, rec); err != nil {
			return fmt.Errorf("write trace for %q: %w", rec.Name, err)
		}
	}
	return nil
}

// evalCondition evaluates a when: guard using expr-lang against Vars.
// An empty condition is always true.
func (e *Engine) evalCondition(exprStr string) (bool, error) {
	exprStr = strings.TrimSpace(exprStr)
	if exprStr == "" {
		return true, nil
	}
	program, err := expr.Compile(exprStr, expr.Env(e.Vars), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", exprStr, err)
	}
	out, err := expr.Run(program, e.Vars)
	if err != nil {
		return false, fmt.Errorf("eval condition %q: %w", exprStr, err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return bool (got %T)", exprStr, out)
	}
	return result, nil
}

func missingRequirements(paths []string) []string {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}

func summaryRows(records []*ActionRecord) []output.Row {
	rows := make([]output.Row, 0, len(records))
	for _, r := range records {
		row := output.Row{Name: r.Name, Status: r.Status}
		var detail []string
		if r.ExitCode != nil && *r.ExitCode != 0 {
			detail = append(detail, fmt.Sprintf("exit %d", *r.ExitCode))
		}
		if r.ExitCode != nil {
			detail = append(detail, output.FormatDuration(r.Elapsed))
		}
		row.Detail = strings.Join(detail, ", ")
		rows = append(rows, row)
	}
	return rows
}

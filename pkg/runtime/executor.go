package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ormasoftchile/shipit/pkg/output"
	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/schema"
)

// Executor runs one action to completion and captures its result.
type Executor struct {
	cfg     schema.PipelineConfig
	runner  providers.Runner
	console *output.Console
}

// NewExecutor creates an action executor.
func NewExecutor(cfg schema.PipelineConfig, runner providers.Runner, console *output.Console) *Executor {
	return &Executor{cfg: cfg, runner: runner, console: console}
}

// Execute runs the action once, blocking until it exits. Output is captured,
// and echoed live in verbose or debug mode.
//
// With timing on, the elapsed time of that single run is reported. With
// TimingRerun the action is executed a second time under a timer instead;
// only the first run's result is returned for classification.
func (x *Executor) Execute(ctx context.Context, action schema.Action) ExecutionResult {
	x.console.Debug("%s: %s", action.Name, action.CommandLine())
	if action.Dir != "" {
		x.console.Debug("%s: working directory %s", action.Name, action.Dir)
	}

	result := x.run(ctx, action)

	if x.cfg.Timing {
		elapsed := result.Elapsed
		if x.cfg.TimingRerun {
			elapsed = x.run(ctx, action).Elapsed
		}
		x.console.Timing(action.Name, elapsed)
		result.Timed = true
	}
	return result
}

func (x *Executor) run(ctx context.Context, action schema.Action) ExecutionResult {
	var buf bytes.Buffer
	var w io.Writer = &buf
	if x.cfg.Streaming() {
		w = io.MultiWriter(&buf, x.console.Stream())
	}

	start := time.Now()
	res, err := x.runner.Run(ctx, action, w)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(&buf, "%v\n", err)
		return ExecutionResult{ExitCode: ExitCannotStart, Output: buf.String(), Elapsed: elapsed}
	}
	return ExecutionResult{ExitCode: res.ExitCode, Output: buf.String(), Elapsed: elapsed}
}

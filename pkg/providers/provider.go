// Package providers defines the Runner and Prompter interfaces the pipeline
// engine talks to, with their real and scripted implementations.
package providers

import (
	"context"
	"io"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

// CommandResult holds the outcome of a single action execution. Timing is
// measured by the caller.
type CommandResult struct {
	ExitCode int `json:"exit_code"`
}

// Runner abstracts real vs scripted action execution.
// Implementations: RealRunner, and the fakes used in tests.
type Runner interface {
	// Run executes the action to completion. Everything the action prints is
	// written to out. A returned error means the action could not be started;
	// a non-zero exit is reported through CommandResult.ExitCode instead.
	Run(ctx context.Context, action schema.Action, out io.Writer) (*CommandResult, error)
}

// Prompter abstracts interactive vs scripted operator input.
// Implementations: LinePrompter, ReadlinePrompter, ScriptedPrompter.
type Prompter interface {
	// Ask writes prompt as a single line and returns one line of input with
	// surrounding whitespace removed. io.EOF is returned when input is closed.
	Ask(prompt string) (string, error)
}

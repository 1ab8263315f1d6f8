package runtime

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ormasoftchile/shipit/pkg/output"
	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/schema"
)

// Gate asks whether a planned action should run.
type Gate struct {
	cfg      schema.PipelineConfig
	prompter providers.Prompter
	console  *output.Console
}

// NewGate creates a confirmation gate.
func NewGate(cfg schema.PipelineConfig, prompter providers.Prompter, console *output.Console) *Gate {
	return &Gate{cfg: cfg, prompter: prompter, console: console}
}

// Decide returns Proceed without reading input in force mode. Otherwise it
// prompts once: empty or yes proceeds, abort aborts, anything else skips.
// Malformed answers are never re-asked. Closed input aborts the run.
func (g *Gate) Decide(action schema.Action) (schema.Decision, error) {
	if g.cfg.Force {
		g.console.Notice("%s (forced, not prompting)", action.Description)
		return schema.Proceed, nil
	}

	answer, err := g.prompter.Ask(g.console.Prompt(action.Description+"?", "[Y/n/a]"))
	if err != nil {
		if errors.Is(err, io.EOF) {
			g.console.Error("input closed while confirming %s", action.Name)
			return schema.Abort, nil
		}
		return schema.Abort, fmt.Errorf("confirm %s: %w", action.Name, err)
	}

	switch {
	case isAffirmative(answer):
		return schema.Proceed, nil
	case isAbort(answer):
		return schema.Abort, nil
	default:
		return schema.Skip, nil
	}
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true
	}
	return false
}

func isAbort(answer string) bool {
	switch strings.ToLower(answer) {
	case "a", "abort":
		return true
	}
	return false
}

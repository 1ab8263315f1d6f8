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

// excerptLines is how much captured output is shown for a failed action
// whose output was not already streamed.
const excerptLines = 15

// Policy turns a classified execution result into a Decision.
type Policy struct {
	cfg        schema.PipelineConfig
	classifier Classifier
	prompter   providers.Prompter
	console    *output.Console
}

// NewPolicy creates an error policy.
func NewPolicy(cfg schema.PipelineConfig, classifier Classifier, prompter providers.Prompter, console *output.Console) *Policy {
	return &Policy{cfg: cfg, classifier: classifier, prompter: prompter, console: console}
}

// Resolve classifies the result. Clean proceeds silently. Tainted and
// Failed are reported, then abort in force mode; interactively the operator
// chooses between continuing with the next action and aborting.
func (p *Policy) Resolve(action schema.Action, result ExecutionResult) (schema.Outcome, schema.Decision, error) {
	outcome := p.classifier.Classify(result)
	if outcome == schema.Clean {
		return outcome, schema.Proceed, nil
	}

	if outcome == schema.Failed {
		p.console.Error("%s failed with exit code %d", action.Name, result.ExitCode)
	} else {
		line, _ := p.classifier.Match(result.Output)
		p.console.Error("%s exited with code %d but reported: %s", action.Name, result.ExitCode, line)
	}
	if !p.cfg.Streaming() {
		p.excerpt(result.Output)
	}

	if p.cfg.Force {
		p.console.Error("force mode: aborting on %s", action.Name)
		return outcome, schema.Abort, nil
	}

	answer, err := p.prompter.Ask(p.console.Prompt("continue to next action?", "[Y/n]"))
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.console.Error("input closed after %s failed", action.Name)
			return outcome, schema.Abort, nil
		}
		return outcome, schema.Abort, fmt.Errorf("resolve %s: %w", action.Name, err)
	}
	if isAffirmative(answer) {
		p.console.Warn("continuing despite error in %s", action.Name)
		return outcome, schema.Proceed, nil
	}
	return outcome, schema.Abort, nil
}

func (p *Policy) excerpt(out string) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return
	}
	if len(lines) > excerptLines {
		lines = lines[len(lines)-excerptLines:]
	}
	for _, l := range lines {
		fmt.Fprintf(p.console.Err, "    %s\n", l)
	}
}

// Package schema defines the pipeline data model: actions, the options parsed
// from the command line, and the immutable configuration derived from them.
package schema

import (
	"context"
	"io"
	"strings"
)

// BuiltinFunc is an in-process action body. Anything it writes to out is
// treated as the action's output. A non-nil error marks the action failed.
type BuiltinFunc func(ctx context.Context, out io.Writer) error

// Action is one named external operation the pipeline may execute.
// Actions are built once by the plan and never mutated afterwards.
type Action struct {
	Name        string   `yaml:"name"                  json:"name"`
	Description string   `yaml:"description"           json:"description"`
	Command     string   `yaml:"command,omitempty"     json:"command,omitempty"`
	Args        []string `yaml:"args,omitempty"        json:"args,omitempty"`
	Dir         string   `yaml:"dir,omitempty"         json:"dir,omitempty"`
	Env         []string `yaml:"env,omitempty"         json:"env,omitempty"`

	// When is an expr-lang guard; the action is left out of the run
	// when it evaluates to false. Empty means always.
	When string `yaml:"when,omitempty" json:"when,omitempty"`

	// Requires lists files that must exist before the action is offered.
	Requires []string `yaml:"requires,omitempty" json:"requires,omitempty"`

	Builtin BuiltinFunc `yaml:"-" json:"-"`
}

// IsBuiltin reports whether the action runs in-process.
func (a Action) IsBuiltin() bool {
	return a.Builtin != nil
}

// CommandLine renders the invocation for display only. It is never handed
// to a shell.
func (a Action) CommandLine() string {
	if a.IsBuiltin() {
		return "(builtin) " + a.Description
	}
	parts := append([]string{a.Command}, a.Args...)
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
		}
	}
	return strings.Join(parts, " ")
}

package runtime

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/ormasoftchile/shipit/pkg/output"
	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/schema"
	"gopkg.in/yaml.v3"
)

// scriptedRun is what the fake runner does for one invocation.
type scriptedRun struct {
	exit   int
	output string
	err    error
}

// fakeRunner records invocations and replays scripted results per action.
// Successive calls for the same action consume successive entries; the last
// entry repeats.
type fakeRunner struct {
	calls   []string
	scripts map[string][]scriptedRun
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{scripts: make(map[string][]scriptedRun)}
}

func (f *fakeRunner) on(name string, runs ...scriptedRun) *fakeRunner {
	f.scripts[name] = runs
	return f
}

func (f *fakeRunner) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeRunner) Run(ctx context.Context, action schema.Action, out io.Writer) (*providers.CommandResult, error) {
	f.calls = append(f.calls, action.Name)
	runs := f.scripts[action.Name]
	var r scriptedRun
	if len(runs) > 0 {
		r = runs[0]
		if len(runs) > 1 {
			f.scripts[action.Name] = runs[1:]
		}
	}
	if r.output != "" {
		io.WriteString(out, r.output)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &providers.CommandResult{ExitCode: r.exit}, nil
}

func testConsole() (*output.Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return output.New(&out, &errOut, false), &out, &errOut
}

func actionNamed(name string) schema.Action {
	return schema.Action{Name: name, Description: "Run " + name, Command: name}
}

// readReport decodes a run.yaml written by the engine.
func readReport(t *testing.T, path string) *RunReport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return &report
}

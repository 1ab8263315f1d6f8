package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/schema"
)

// recordingRunner records every action it is asked to run. Builtins run for
// real so install and cleanup touch the filesystem; commands succeed unless
// a failure is scripted for them.
type recordingRunner struct {
	env      []string
	calls    []string
	failures map[string]string
}

func (r *recordingRunner) Run(ctx context.Context, action schema.Action, out io.Writer) (*providers.CommandResult, error) {
	r.calls = append(r.calls, action.Name)
	if action.IsBuiltin() {
		if err := action.Builtin(ctx, out); err != nil {
			io.WriteString(out, err.Error()+"\n")
			return &providers.CommandResult{ExitCode: 1}, nil
		}
		return &providers.CommandResult{}, nil
	}
	if msg, ok := r.failures[action.Name]; ok {
		io.WriteString(out, msg)
		return &providers.CommandResult{ExitCode: 101}, nil
	}
	return &providers.CommandResult{}, nil
}

type harness struct {
	app      *app
	runner   *recordingRunner
	prompter *providers.ScriptedPrompter
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newHarness(answers ...string) *harness {
	h := &harness{
		runner:   &recordingRunner{failures: map[string]string{}},
		prompter: providers.NewScriptedPrompter(answers...),
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}
	h.app = &app{
		stdout: h.stdout,
		stderr: h.stderr,
		newRunner: func(env []string) providers.Runner {
			h.runner.env = env
			return h.runner
		},
		newPrompter: func(io.Writer) (providers.Prompter, func() error) {
			return h.prompter, func() error { return nil }
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	return execute(context.Background(), h.app, args)
}

func (h *harness) calls() string {
	return strings.Join(h.runner.calls, ",")
}

// newProject creates a Cargo project directory whose manifest names demo.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestInvalidModeRunsNothing(t *testing.T) {
	h := newHarness()
	if code := h.run("-m", "bogus"); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("calls = %s, want none", h.calls())
	}
	if !strings.Contains(h.stderr.String(), "bogus") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestInvalidBacktraceRunsNothing(t *testing.T) {
	h := newHarness()
	if code := h.run("-b", "sometimes"); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("calls = %s, want none", h.calls())
	}
}

// TestForcedLinuxBuildInstallsAndCleans covers an unattended Linux build
// whose artifact exists: install and cleanup run without any prompt.
func TestForcedLinuxBuildInstallsAndCleans(t *testing.T) {
	project := newProject(t)
	out := filepath.Join(t.TempDir(), "out")
	built := filepath.Join(out, "release", "demo")
	if err := os.MkdirAll(filepath.Dir(built), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(built, []byte("binary"), 0755); err != nil {
		t.Fatal(err)
	}

	h := newHarness()
	if code := h.run("-p", project, "-l", out, "-f"); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, h.stderr.String())
	}
	want := "toolchain-update,dependency-update,clean,build-linux,install-linux,clean-linux-dir"
	if h.calls() != want {
		t.Errorf("calls = %s\nwant %s", h.calls(), want)
	}
	if len(h.prompter.Prompts) != 0 {
		t.Errorf("forced run prompted: %v", h.prompter.Prompts)
	}
	if _, err := os.Stat(filepath.Join(out, "demo")); err != nil {
		t.Errorf("installed binary missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "release")); !os.IsNotExist(err) {
		t.Error("release directory should be removed")
	}
}

// TestBuildFailureContinuesOnEmptyAnswer covers an interactive run where the
// build fails and the operator presses enter at every question.
func TestBuildFailureContinuesOnEmptyAnswer(t *testing.T) {
	project := newProject(t)
	out := filepath.Join(t.TempDir(), "out")

	// toolchain, deps, clean, build, continue after failure, cleanup
	h := newHarness("", "", "", "", "", "")
	h.runner.failures["build-linux"] = "error: linking with `cc` failed\n"

	if code := h.run("-p", project, "-l", out); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, h.stderr.String())
	}
	want := "toolchain-update,dependency-update,clean,build-linux,clean-linux-dir"
	if h.calls() != want {
		t.Errorf("calls = %s\nwant %s", h.calls(), want)
	}
	if len(h.prompter.Prompts) != 6 {
		t.Errorf("prompted %d times, want 6: %v", len(h.prompter.Prompts), h.prompter.Prompts)
	}
	if !strings.Contains(h.stderr.String(), "build-linux failed with exit code 101") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if !strings.Contains(h.stderr.String(), "missing") {
		t.Errorf("expected missing artifact warning, stderr = %q", h.stderr.String())
	}
}

func TestNoOutputsRunsMaintenanceOnly(t *testing.T) {
	h := newHarness("", "", "")
	if code := h.run("-p", newProject(t)); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, h.stderr.String())
	}
	if h.calls() != "toolchain-update,dependency-update,clean" {
		t.Errorf("calls = %s", h.calls())
	}
	if !strings.Contains(h.stdout.String(), "pipeline completed") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestAbortAnswerExitsNonZero(t *testing.T) {
	h := newHarness("", "a")
	if code := h.run("-p", newProject(t)); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if h.calls() != "toolchain-update" {
		t.Errorf("calls = %s", h.calls())
	}
}

func TestMissingManifestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"with linux output", []string{"-l", t.TempDir(), "-f"}},
		{"maintenance only", nil},
		{"maintenance only forced", []string{"-f"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("", "", "")
			if code := h.run(append([]string{"-p", t.TempDir()}, tt.args...)...); code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
			if len(h.runner.calls) != 0 {
				t.Errorf("calls = %s, want none", h.calls())
			}
			if len(h.prompter.Prompts) != 0 {
				t.Errorf("prompted before the manifest check: %v", h.prompter.Prompts)
			}
			if !strings.Contains(h.stderr.String(), "Cargo.toml") {
				t.Errorf("stderr = %q", h.stderr.String())
			}
		})
	}
}

func TestBacktraceReachesRunner(t *testing.T) {
	h := newHarness()
	if code := h.run("-p", newProject(t), "-b", "full", "-f"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if len(h.runner.env) != 1 || h.runner.env[0] != "RUST_BACKTRACE=full" {
		t.Errorf("env = %v", h.runner.env)
	}
}

func TestUnknownFlagShowsUsage(t *testing.T) {
	h := newHarness()
	if code := h.run("--bogus"); code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(h.stderr.String(), "Usage:") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if len(h.runner.calls) != 0 {
		t.Error("nothing should run")
	}
}

func TestHelpExitsZero(t *testing.T) {
	h := newHarness()
	if code := h.run("-h"); code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(h.stdout.String(), "--linux-out") {
		t.Errorf("help output = %q", h.stdout.String())
	}
}

func TestRecordWritesRunDirectory(t *testing.T) {
	record := t.TempDir()
	h := newHarness()
	if code := h.run("-p", newProject(t), "-f", "--record", record); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	entries, err := os.ReadDir(record)
	if err != nil || len(entries) != 1 {
		t.Fatalf("record dir entries = %v, %v", entries, err)
	}
	if _, err := os.Stat(filepath.Join(record, entries[0].Name(), "run.yaml")); err != nil {
		t.Errorf("run.yaml: %v", err)
	}
}

func TestLoadEnvFileKeepsExisting(t *testing.T) {
	t.Setenv("SHIPIT_TEST_PRESET", "keep")
	t.Cleanup(func() { os.Unsetenv("SHIPIT_TEST_NEW") })

	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nSHIPIT_TEST_PRESET=override\nexport SHIPIT_TEST_NEW=\"value\"\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	loadEnvFile(path)

	if got := os.Getenv("SHIPIT_TEST_PRESET"); got != "keep" {
		t.Errorf("preset = %q, want keep", got)
	}
	if got := os.Getenv("SHIPIT_TEST_NEW"); got != "value" {
		t.Errorf("new = %q, want value", got)
	}
}

package schema

import (
	"errors"
	"strings"
	"testing"
)

func validOptions() Options {
	return Options{Mode: ModeRelease, ProjectRoot: "."}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validOptions().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	o := validOptions()
	o.Mode = "bogus"
	err := o.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Flag != "m" {
		t.Errorf("flag = %q, want m", ve.Flag)
	}
}

func TestValidateBacktraceLevels(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"full", true},
		{"short", true},
		{"0", true},
		{"1", true},
		{"2", false},
		{"FULL", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			o := validOptions()
			o.Backtrace = tt.value
			err := o.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOptionsEnv(t *testing.T) {
	o := validOptions()
	if env := o.Env(); len(env) != 0 {
		t.Errorf("expected no env without -b, got %v", env)
	}
	o.Backtrace = "full"
	env := o.Env()
	if len(env) != 1 || env[0] != "RUST_BACKTRACE=full" {
		t.Errorf("env = %v", env)
	}
}

func TestPipelineRerunImpliesTiming(t *testing.T) {
	o := validOptions()
	o.TimingRerun = true
	cfg := o.Pipeline()
	if !cfg.Timing || !cfg.TimingRerun {
		t.Errorf("cfg = %+v, want timing and rerun", cfg)
	}
}

func TestCommandLineQuotesSpaces(t *testing.T) {
	a := Action{Command: "cargo", Args: []string{"build", "--target-dir", "/my out"}}
	got := a.CommandLine()
	if !strings.Contains(got, `"/my out"`) {
		t.Errorf("CommandLine() = %q, want quoted path", got)
	}
}

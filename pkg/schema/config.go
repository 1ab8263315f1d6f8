package schema

import (
	"fmt"
	"strings"
)

// Build modes accepted by -m.
const (
	ModeRelease = "release"
	ModeDebug   = "debug"
)

// BacktraceEnv is the toolchain variable controlled by -b.
const BacktraceEnv = "RUST_BACKTRACE"

// BacktraceLevels lists the values accepted by -b.
var BacktraceLevels = []string{"full", "short", "0", "1"}

// Options holds the raw values parsed from the command line.
type Options struct {
	Verbose     bool
	Debug       bool
	Timing      bool
	TimingRerun bool
	Force       bool
	Backtrace   string
	ProjectRoot string
	WindowsOut  string
	LinuxOut    string
	DocOut      string
	Mode        string
	RecordDir   string
}

// ValidationError reports a bad option value. It is fatal before any action runs.
type ValidationError struct {
	Flag    string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Flag == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid value %q for -%s: %s", e.Value, e.Flag, e.Message)
}

// Validate checks the enumerated option values.
func (o Options) Validate() error {
	switch o.Mode {
	case ModeRelease, ModeDebug:
	default:
		return &ValidationError{Flag: "m", Value: o.Mode, Message: "expected release or debug"}
	}
	if o.Backtrace != "" && !contains(BacktraceLevels, o.Backtrace) {
		return &ValidationError{
			Flag:    "b",
			Value:   o.Backtrace,
			Message: "expected one of " + strings.Join(BacktraceLevels, ", "),
		}
	}
	if strings.TrimSpace(o.ProjectRoot) == "" {
		return &ValidationError{Flag: "p", Value: o.ProjectRoot, Message: "project root must not be empty"}
	}
	return nil
}

// Pipeline returns the run-wide configuration snapshot.
func (o Options) Pipeline() PipelineConfig {
	return PipelineConfig{
		Force:       o.Force,
		Verbose:     o.Verbose,
		Debug:       o.Debug,
		Timing:      o.Timing || o.TimingRerun,
		TimingRerun: o.TimingRerun,
	}
}

// Env returns the environment additions every spawned action inherits.
func (o Options) Env() []string {
	if o.Backtrace == "" {
		return nil
	}
	return []string{BacktraceEnv + "=" + o.Backtrace}
}

// PipelineConfig is created once at startup and passed by value to every
// component. Nothing writes to it after the run starts.
type PipelineConfig struct {
	Force       bool `yaml:"force"        json:"force"`
	Verbose     bool `yaml:"verbose"      json:"verbose"`
	Debug       bool `yaml:"debug"        json:"debug"`
	Timing      bool `yaml:"timing"       json:"timing"`
	TimingRerun bool `yaml:"timing_rerun" json:"timing_rerun"`
}

// Streaming reports whether action output is echoed live.
func (c PipelineConfig) Streaming() bool {
	return c.Verbose || c.Debug
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ormasoftchile/shipit/pkg/manifest"
	"github.com/ormasoftchile/shipit/pkg/output"
	"github.com/ormasoftchile/shipit/pkg/plan"
	"github.com/ormasoftchile/shipit/pkg/providers"
	"github.com/ormasoftchile/shipit/pkg/runtime"
	"github.com/ormasoftchile/shipit/pkg/schema"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// errUsage marks a command line that was answered with the usage text.
// It exits with status 0.
var errUsage = errors.New("usage shown")

// app carries the process boundaries so tests can replace them.
type app struct {
	stdout io.Writer
	stderr io.Writer

	newRunner   func(env []string) providers.Runner
	newPrompter func(out io.Writer) (providers.Prompter, func() error)
}

func defaultApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newRunner: func(env []string) providers.Runner {
			return &providers.RealRunner{Env: env}
		},
		newPrompter: providers.NewInteractivePrompter,
	}
}

func main() {
	loadDotEnv() // load .env file if present (gitignored)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, defaultApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the command line and maps the result to a process exit status.
func execute(ctx context.Context, a *app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil, errors.Is(err, errUsage):
		return 0
	default:
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	var opts schema.Options

	cmd := &cobra.Command{
		Use:   "shipit [flags]",
		Short: "Build, install and document a Cargo project, one confirmed step at a time",
		Long: `shipit walks a Cargo project through a fixed sequence of actions:

  1. rustup update
  2. cargo update
  3. cargo clean
  4. Linux build, install and cleanup (-l)
  5. Windows build, install and cleanup (-w)
  6. cargo doc (-o)

Each action is confirmed before it runs unless -f is given. Output that
reports an error or a warning pauses the run, even when the exit code is 0.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmd.PrintErrf("unexpected argument %q\n", args[0])
				cmd.PrintErr(cmd.UsageString())
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(cmd.Context(), opts)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(err)
		cmd.PrintErr(cmd.UsageString())
		return errUsage
	})

	f := cmd.Flags()
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Stream command output while it runs")
	f.BoolVarP(&opts.Debug, "debug", "d", false, "Print each command line and working directory before it runs")
	f.BoolVarP(&opts.Timing, "timing", "t", false, "Report the wall-clock time of each action")
	f.BoolVar(&opts.TimingRerun, "timing-rerun", false, "Run each action a second time under the timer (implies -t)")
	f.StringVarP(&opts.Backtrace, "backtrace", "b", "", "Set RUST_BACKTRACE for spawned commands: full, short, 0 or 1")
	f.StringVarP(&opts.ProjectRoot, "project", "p", ".", "Cargo project root")
	f.StringVarP(&opts.WindowsOut, "windows-out", "w", "", "Build for Windows into this directory")
	f.StringVarP(&opts.LinuxOut, "linux-out", "l", "", "Build for Linux into this directory")
	f.StringVarP(&opts.DocOut, "doc-out", "o", "", "Generate documentation into this directory")
	f.StringVarP(&opts.Mode, "mode", "m", schema.ModeRelease, "Build mode: release or debug")
	f.BoolVarP(&opts.Force, "force", "f", false, "Run every action without asking; stop at the first problem")
	f.StringVar(&opts.RecordDir, "record", "", "Write trace.jsonl and run.yaml for this run under the directory")

	return cmd
}

// runPipeline validates the options, builds the plan and drives it.
func (a *app) runPipeline(ctx context.Context, opts schema.Options) error {
	console := output.New(a.stdout, a.stderr, opts.Debug)

	if err := opts.Validate(); err != nil {
		console.Error("%v", err)
		return err
	}

	binary, err := manifest.BinaryName(opts.ProjectRoot)
	if err != nil {
		console.Error("cannot determine binary name: %v", err)
		return fmt.Errorf("binary name: %w", err)
	}
	console.Debug("binary name from %s: %s", manifest.FileName, binary)

	var prompter providers.Prompter
	if opts.Force {
		prompter = providers.NewScriptedPrompter()
	} else {
		p, closePrompter := a.newPrompter(a.stdout)
		defer closePrompter()
		prompter = p
	}

	p := plan.Build(opts, binary)
	engine := runtime.NewEngine(opts.Pipeline(), a.newRunner(opts.Env()), prompter, console)
	for k, v := range p.Vars {
		engine.Vars[k] = v
	}
	if opts.RecordDir != "" {
		if err := engine.Record(opts.RecordDir); err != nil {
			console.Error("%v", err)
			return err
		}
	}

	_, err = engine.Run(ctx, p.Actions)
	if err != nil && !errors.Is(err, runtime.ErrAborted) {
		console.Error("%v", err)
	}
	return err
}

// Package plan builds the fixed, ordered list of actions for a Cargo project:
// toolchain and dependency updates, clean, the Linux and Windows builds with
// their install and cleanup steps, and documentation.
package plan

import (
	"fmt"
	"path/filepath"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

// WindowsTarget is the cross-compilation triple used for Windows builds.
const WindowsTarget = "x86_64-pc-windows-gnu"

// Plan is the ordered action list plus the variables its when: guards read.
type Plan struct {
	Vars    map[string]any
	Actions []schema.Action
}

// Build returns the plan for the given options. Every action is always
// present; actions for unconfigured outputs carry a when: guard that
// evaluates to false so the engine leaves them out.
func Build(opts schema.Options, binary string) Plan {
	root := absPath(opts.ProjectRoot)
	linux := absPath(opts.LinuxOut)
	windows := absPath(opts.WindowsOut)
	docs := absPath(opts.DocOut)
	mode := opts.Mode

	vars := map[string]any{
		"project":     root,
		"binary":      binary,
		"mode":        mode,
		"linux_out":   linux,
		"windows_out": windows,
		"doc_out":     docs,
	}

	linuxBuilt := filepath.Join(linux, mode, binary)
	windowsBuilt := filepath.Join(windows, WindowsTarget, mode, binary+".exe")

	actions := []schema.Action{
		{
			Name:        "toolchain-update",
			Description: "Update the Rust toolchain",
			Command:     "rustup",
			Args:        []string{"update"},
		},
		{
			Name:        "dependency-update",
			Description: "Update dependencies",
			Command:     "cargo",
			Args:        []string{"update"},
		},
		{
			Name:        "clean",
			Description: "Clean build artifacts",
			Command:     "cargo",
			Args:        []string{"clean"},
		},
		{
			Name:        "build-linux",
			Description: fmt.Sprintf("Build %s for Linux (%s)", binary, mode),
			Command:     "cargo",
			Args:        buildArgs(mode, "", linux),
			When:        `linux_out != ""`,
		},
		{
			Name:        "install-linux",
			Description: fmt.Sprintf("Install %s to %s", binary, linux),
			When:        `linux_out != ""`,
			Requires:    []string{linuxBuilt},
			Builtin:     CopyFile(linuxBuilt, filepath.Join(linux, binary)),
		},
		{
			Name:        "clean-linux-dir",
			Description: fmt.Sprintf("Remove Linux build directory %s", filepath.Join(linux, mode)),
			When:        `linux_out != ""`,
			Builtin:     RemoveDirs(filepath.Join(linux, mode)),
		},
		{
			Name:        "build-windows",
			Description: fmt.Sprintf("Build %s for Windows (%s)", binary, mode),
			Command:     "cargo",
			Args:        buildArgs(mode, WindowsTarget, windows),
			When:        `windows_out != ""`,
		},
		{
			Name:        "install-windows",
			Description: fmt.Sprintf("Install %s.exe to %s", binary, windows),
			When:        `windows_out != ""`,
			Requires:    []string{windowsBuilt},
			Builtin:     CopyFile(windowsBuilt, filepath.Join(windows, binary+".exe")),
		},
		{
			Name:        "clean-windows-dir",
			Description: fmt.Sprintf("Remove Windows build directory %s", filepath.Join(windows, WindowsTarget)),
			When:        `windows_out != ""`,
			Builtin:     RemoveDirs(filepath.Join(windows, WindowsTarget), filepath.Join(windows, mode)),
		},
		{
			Name:        "docs",
			Description: fmt.Sprintf("Generate documentation into %s", docs),
			Command:     "cargo",
			Args:        []string{"doc", "--no-deps", "--target-dir", docs},
			When:        `doc_out != ""`,
		},
	}
	for i := range actions {
		actions[i].Dir = root
	}
	return Plan{Vars: vars, Actions: actions}
}

func buildArgs(mode, target, targetDir string) []string {
	args := []string{"build"}
	if mode == schema.ModeRelease {
		args = append(args, "--release")
	}
	if target != "" {
		args = append(args, "--target", target)
	}
	return append(args, "--target-dir", targetDir)
}

// absPath resolves p against the current directory. Empty stays empty so
// the when: guards still see an unconfigured output.
func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

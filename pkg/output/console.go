// Package output formats the operator-facing status, warning, error and debug
// lines of a pipeline run.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Console writes prefixed, colorized lines. Status, notices and debug lines
// go to Out; warnings and errors go to Err.
type Console struct {
	Out   io.Writer
	Err   io.Writer
	debug bool
	st    styles
}

// New creates a console on the given writers. Color is enabled only when
// out is a terminal that supports it.
func New(out, errOut io.Writer, debug bool) *Console {
	return &Console{
		Out:   out,
		Err:   errOut,
		debug: debug,
		st:    newStyles(lipgloss.NewRenderer(out)),
	}
}

// Status announces a pipeline step.
func (c *Console) Status(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", c.st.status.Render("==>"), fmt.Sprintf(format, args...))
}

// Notice is an informational line, e.g. a forced action.
func (c *Console) Notice(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", c.st.notice.Render("  ->"), fmt.Sprintf(format, args...))
}

// Success marks a completed action or run.
func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", c.st.passed.Render("  "+GlyphPassed), fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", c.st.warning.Render("warning:"), fmt.Sprintf(format, args...))
}

func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", c.st.error.Render("error:"), fmt.Sprintf(format, args...))
}

// Debug is a no-op unless the console was created with debug on.
func (c *Console) Debug(format string, args ...any) {
	if !c.debug {
		return
	}
	fmt.Fprintf(c.Out, "%s %s\n", c.st.debug.Render("debug:"), c.st.debug.Render(fmt.Sprintf(format, args...)))
}

// Timing reports the elapsed wall-clock time of an action.
func (c *Console) Timing(name string, d time.Duration) {
	fmt.Fprintf(c.Out, "%s %s took %s\n", c.st.timing.Render("  ⏱"), name, FormatDuration(d))
}

// Prompt renders a question. The prompter writes it, so it is returned
// rather than printed.
func (c *Console) Prompt(question, choices string) string {
	return fmt.Sprintf("%s %s %s ", c.st.prompt.Render("??"), question, c.st.debug.Render(choices))
}

// Stream returns the writer live action output is echoed to.
func (c *Console) Stream() io.Writer {
	return c.Out
}

// FormatDuration rounds to milliseconds below a minute and to seconds above.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

package output

import "github.com/charmbracelet/lipgloss"

// Status glyphs convey meaning without relying on color alone.
const (
	GlyphPassed  = "✓"
	GlyphFailed  = "✗"
	GlyphSkipped = "⊘"
	GlyphWarning = "!"
	GlyphPending = "○"
)

var (
	colorGreen   = lipgloss.Color("42")
	colorRed     = lipgloss.Color("196")
	colorYellow  = lipgloss.Color("214")
	colorBlue    = lipgloss.Color("39")
	colorCyan    = lipgloss.Color("51")
	colorDim     = lipgloss.Color("240")
	colorMagenta = lipgloss.Color("201")
)

// styles is bound to one renderer so color support follows the writer the
// console prints to, not the process stdout.
type styles struct {
	status  lipgloss.Style
	notice  lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
	debug   lipgloss.Style
	prompt  lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	header  lipgloss.Style
	timing  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		status:  r.NewStyle().Bold(true).Foreground(colorBlue),
		notice:  r.NewStyle().Foreground(colorCyan),
		warning: r.NewStyle().Bold(true).Foreground(colorYellow),
		error:   r.NewStyle().Bold(true).Foreground(colorRed),
		debug:   r.NewStyle().Foreground(colorDim),
		prompt:  r.NewStyle().Bold(true).Foreground(colorMagenta),
		passed:  r.NewStyle().Foreground(colorGreen),
		failed:  r.NewStyle().Foreground(colorRed),
		skipped: r.NewStyle().Faint(true),
		header:  r.NewStyle().Bold(true).Foreground(colorCyan),
		timing:  r.NewStyle().Foreground(colorYellow),
	}
}

package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Row is one line of the end-of-run summary.
type Row struct {
	Name   string
	Status string // passed, tainted, failed, skipped, missing, aborted
	Detail string
}

// Summary prints an aligned table of action results.
func (c *Console) Summary(title string, rows []Row) {
	if len(rows) == 0 {
		return
	}
	width := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r.Name); w > width {
			width = w
		}
	}

	fmt.Fprintf(c.Out, "\n%s\n", c.st.header.Render(title))
	for _, r := range rows {
		glyph, style := GlyphPending, c.st.skipped
		switch r.Status {
		case "passed":
			glyph, style = GlyphPassed, c.st.passed
		case "failed", "aborted":
			glyph, style = GlyphFailed, c.st.failed
		case "tainted", "missing":
			glyph, style = GlyphWarning, c.st.warning
		case "skipped":
			glyph = GlyphSkipped
		}
		name := r.Name + strings.Repeat(" ", width-runewidth.StringWidth(r.Name))
		line := fmt.Sprintf("  %s %s  %-8s", glyph, name, r.Status)
		if r.Detail != "" {
			line += "  " + r.Detail
		}
		fmt.Fprintln(c.Out, style.Render(strings.TrimRight(line, " ")))
	}
}

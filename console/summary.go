package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studybuddy-admin/domain"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#565f89")).
			Padding(0, 1)
)

// RenderSummary writes the outcome of a seed run.
func RenderSummary(w io.Writer, s domain.Summary) error {
	var b strings.Builder
	if len(s.Purged) > 0 {
		b.WriteString(titleStyle.Render("Purged:"))
		b.WriteString("\n")
		for _, p := range s.Purged {
			b.WriteString(PurgeLine(p))
			b.WriteString("\n")
		}
	}
	b.WriteString(titleStyle.Render("Imported:"))
	for _, c := range s.Imported {
		fmt.Fprintf(&b, "\n  - %d %s", c.Count, c.Collection)
	}
	_, err := fmt.Fprintln(w, boxStyle.Render(b.String()))
	return err
}

// PurgeLine describes one purge result on a single line.
func PurgeLine(p domain.PurgeResult) string {
	line := fmt.Sprintf("  - %s: %d deleted", p.Collection, p.Deleted)
	if p.Failed > 0 || p.Remaining > 0 {
		line += warnStyle.Render(fmt.Sprintf(" (%d failed, %d remaining)", p.Failed, p.Remaining))
	}
	return line
}

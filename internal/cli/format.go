// Package cli provides the CLI presentation layer for jobcounter.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// FormatWeek renders a register week key as "d-Mon"
func FormatWeek(weekKey string) string {
	return timeutil.WeekLabel(weekKey)
}

// FormatOptional renders a nullable duration field
func FormatOptional(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}

// FormatObservedAt renders a snapshot timestamp
// Examples: "Tue Jan 9 17:00", "(never)"
func FormatObservedAt(t *time.Time) string {
	if t == nil {
		return "(never)"
	}
	return t.Local().Format("Mon Jan 2 15:04")
}

// FormatSnapshot formats a snapshot as indented "field: value" lines
func FormatSnapshot(snap *storage.Snapshot) string {
	if snap == nil {
		return "  (no snapshot yet)\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  Configured start: %s\n", FormatOptional(snap.ConfiguredStart))
	fmt.Fprintf(&b, "  Last observed:    %s\n", FormatOptional(snap.LastObserved))
	fmt.Fprintf(&b, "  Observed at:      %s\n", FormatObservedAt(snap.ObservedAt))
	return b.String()
}

// FormatRegisterTable formats register entries as an aligned table
func FormatRegisterTable(entries []storage.RegisterEntry) string {
	idWidth := len("ID")
	for _, e := range entries {
		if w := len(fmt.Sprint(e.ID)); w > idWidth {
			idWidth = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-10s  %-6s  %s\n", idWidth, "ID", "WEEK", "LABEL", "OFFSET")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-*d  %-10s  %-6s  %s\n", idWidth, e.ID, e.Week, FormatWeek(e.Week), e.Offset)
	}
	return b.String()
}

// FormatBalance formats a number of seconds as a register offset
func FormatBalance(seconds int64) string {
	return timeutil.FormatShort(seconds)
}

// BuildRegisterMarkdown renders the register and its statistics as markdown
func BuildRegisterMarkdown(result *service.RegisterResult) string {
	var b strings.Builder
	b.WriteString("# Weekly register\n\n")

	if len(result.Entries) == 0 {
		b.WriteString("_No weeks archived yet._\n")
		return b.String()
	}

	b.WriteString("| ID | Week | Offset |\n")
	b.WriteString("|---:|------|-------:|\n")
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "| %d | %s (%s) | `%s` |\n", e.ID, FormatWeek(e.Week), e.Week, e.Offset)
	}

	s := result.Statistics
	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- **Balance:** `%s` over %d %s\n", FormatBalance(s.BalanceSeconds), s.Weeks, Pluralize("week", s.Weeks))
	fmt.Fprintf(&b, "- **Average:** `%s` per week\n", FormatBalance(s.AverageSeconds))
	fmt.Fprintf(&b, "- **Weeks with time to spare:** %d, **in overtime:** %d, **even:** %d\n",
		s.SurplusWeeks, s.OvertimeWeeks, s.EvenWeeks)
	if s.Best != nil && s.Worst != nil {
		fmt.Fprintf(&b, "- **Best week:** %s (`%s`), **worst week:** %s (`%s`)\n",
			FormatWeek(s.Best.Week), s.Best.Offset, FormatWeek(s.Worst.Week), s.Worst.Offset)
	}

	if len(result.Years) > 1 {
		b.WriteString("\n## By year\n\n")
		for _, y := range result.Years {
			fmt.Fprintf(&b, "- %d: `%s` over %d %s\n", y.Year, FormatBalance(y.BalanceSeconds), y.Weeks, Pluralize("week", y.Weeks))
		}
	}
	return b.String()
}

// RenderMarkdown renders markdown for the terminal. An empty style picks
// one from the terminal background.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

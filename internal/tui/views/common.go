// Package views holds the three screens of the interactive app.
package views

import (
	"strings"

	"github.com/Matoxx01/JobCounter/internal/tui/ui"
)

// renderLine renders a "label: value" pair
func renderLine(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(label+":") + " " + styles.StatValue.Render(value) + "\n"
}

// renderConfirm renders a y/n confirmation dialog
func renderConfirm(styles ui.Styles, title, question string, details ...string) string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(styles.Warning.Render(question))
	b.WriteString("\n\n")
	for _, d := range details {
		b.WriteString(d)
		b.WriteString("\n")
	}
	if len(details) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(styles.StatLabel.Render("Press Y to confirm, N or Esc to cancel"))
	return styles.Dialog.Render(b.String())
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

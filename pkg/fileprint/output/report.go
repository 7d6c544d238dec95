package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/verify"
)

// groupRule separates duplicate groups.
var groupRule = strings.Repeat("=", 80)

// WriteGroups writes duplicate groups as a rule, the MD5 label, and one
// indented line per member prefixed with its record file index.
func WriteGroups(w *bytes.Buffer, groups []record.Group) {
	for _, g := range groups {
		w.WriteString(groupRule)
		w.WriteString("\nMD5:")
		w.WriteString(g.MD5)
		w.WriteString("\n")
		for _, e := range g.Entries {
			fmt.Fprintf(w, "  %3d: %s\n", e.Source, e.Record.Path)
		}
	}
}

// WriteOutcome writes one verify line: STATUS, path, and detail. When styled
// is set the status is colored.
func WriteOutcome(w *bytes.Buffer, o verify.Outcome, styled bool) {
	status := fmt.Sprintf("%-7s", o.Status)
	if styled {
		status = statusStyle(o.Status).Render(status)
	}

	w.WriteString(status)
	w.WriteString(" ")
	w.WriteString(o.Expected.Path)

	switch {
	case len(o.Changes) > 0:
		w.WriteString(" (")
		w.WriteString(strings.Join(o.Changes, ","))
		w.WriteString(")")
	case o.Err != nil && o.Status != verify.StatusMissing:
		w.WriteString(": ")
		w.WriteString(o.Err.Error())
	}
	w.WriteString("\n")
}

// WriteSummary writes the verify totals on one line.
func WriteSummary(w *bytes.Buffer, s verify.Summary) {
	fmt.Fprintf(w, "%d checked: %d ok, %d changed, %d missing, %d skipped, %d errors\n",
		s.Total, s.OK, s.Changed, s.Missing, s.Skipped, s.Errors)
}

func statusStyle(s verify.Status) lipgloss.Style {
	switch s {
	case verify.StatusOK:
		return SuccessStyle
	case verify.StatusChanged, verify.StatusSkipped:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

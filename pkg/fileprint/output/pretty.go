package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// PrettyFormatter renders each record in a styled box for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	if len(r.Records) == 0 {
		w.WriteString(MutedStyle.Render("No records"))
		w.WriteString("\n")
		return nil
	}

	for _, rec := range r.Records {
		w.WriteString(RecordBox.Render(f.formatRecord(rec)))
		w.WriteString("\n")
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatRecord(rec *record.Record) string {
	var lines []string
	lines = append(lines, TitleStyle.Render(rec.Path))

	size := SizeStyle.Render(types.FormatSize(rec.Census.Bytes))
	lines = append(lines, fmt.Sprintf("%s %s %s  %s %s  %s %s",
		label("Size:"), size, MutedStyle.Render("("+humanize.Comma(int64(rec.Census.Bytes))+" bytes)"),
		label("Lines:"), ValueStyle.Render(humanize.Comma(int64(rec.Census.Lines))),
		label("Binary:"), ValueStyle.Render(binaryShare(rec.Census))))

	lines = append(lines,
		fmt.Sprintf("%s %s", label("MD5:"), DigestStyle.Render(rec.MD5)),
		fmt.Sprintf("%s %s", label("SHA1:"), DigestStyle.Render(rec.SHA1)),
		fmt.Sprintf("%s %s", label("Captured:"), timestamp(rec.Captured)))

	if rec.Layout == record.V2 {
		lines = append(lines,
			fmt.Sprintf("%s %s", label("Modified:"), timestamp(rec.Mtime)),
			fmt.Sprintf("%s %s", label("Changed:"), timestamp(rec.Ctime)),
			fmt.Sprintf("%s %s", label("Accessed:"), timestamp(rec.Atime)))
	}

	return strings.Join(lines, "\n")
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	content := fmt.Sprintf("%s %s  %s %s",
		label("Records:"), ValueStyle.Render(fmt.Sprintf("%d", len(r.Records))),
		label("Total:"), SizeStyle.Render(types.FormatSize(r.TotalBytes())))
	return FooterBox.Render(content)
}

// label pads field labels so values line up.
func label(s string) string {
	return LabelStyle.Render(fmt.Sprintf("%-9s", s))
}

func binaryShare(c types.Census) string {
	if c.Bytes == 0 {
		return "0"
	}
	pct := float64(c.BinaryBytes) * 100 / float64(c.Bytes)
	return fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(c.BinaryBytes)), pct)
}

func timestamp(sec uint64) string {
	t := time.Unix(int64(sec), 0)
	return ValueStyle.Render(t.UTC().Format(time.DateTime)+" UTC") + " " +
		MutedStyle.Render("("+humanize.Time(t)+")")
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)

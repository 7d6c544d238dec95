package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter formats output as RFC 4180 comma-separated values with a
// header row. Paths containing commas or quotes are quoted.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	header := []string{"CAPTURED", "ATIME", "CTIME", "MTIME", "MD5", "SHA1", "BINARY", "LINES", "BYTES", "PATH"}
	if err := writer.Write(header); err != nil {
		return err
	}

	u := func(n uint64) string { return strconv.FormatUint(n, 10) }
	for _, rec := range r.Records {
		row := []string{
			u(rec.Captured), u(rec.Atime), u(rec.Ctime), u(rec.Mtime),
			rec.MD5, rec.SHA1,
			u(rec.Census.BinaryBytes), u(rec.Census.Lines), u(rec.Census.Bytes),
			rec.Path,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

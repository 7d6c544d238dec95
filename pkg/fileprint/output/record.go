package output

import "bytes"

// RecordFormatter writes each record as its canonical line.
type RecordFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *RecordFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, rec := range r.Records {
		w.WriteString(rec.Line())
	}
	return nil
}

func init() {
	Register("record", func() Formatter {
		return &RecordFormatter{}
	})
}

// Ensure RecordFormatter implements Formatter.
var _ Formatter = (*RecordFormatter)(nil)

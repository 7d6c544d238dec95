// Package verify recomputes fingerprints for previously recorded paths and
// classifies each one against its record.
package verify

import (
	"errors"

	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/meta"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
)

var logger = logging.Get("verify")

// Status is the verdict for one record.
type Status int

// Verdicts, in increasing order of severity for exit code purposes.
const (
	StatusOK Status = iota
	StatusSkipped
	StatusChanged
	StatusMissing
	StatusError
)

// String returns the upper-case label printed in reports.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSkipped:
		return "SKIPPED"
	case StatusChanged:
		return "CHANGED"
	case StatusMissing:
		return "MISSING"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Exit statuses for a verify run.
const (
	ExitOK        = 0
	ExitChanged   = 20
	ExitError     = 21
	ExitMalformed = 22
)

// Outcome is the result of checking one record.
type Outcome struct {
	Status   Status
	Expected *record.Record

	// Actual is the recomputed record when the file could be read.
	Actual *record.Record

	// Changes names the fields that differ for StatusChanged.
	Changes []string

	// Err is set for StatusMissing, StatusSkipped and StatusError.
	Err error
}

// Summary counts outcomes by status.
type Summary struct {
	Total   int
	OK      int
	Changed int
	Missing int
	Skipped int
	Errors  int
}

// Add counts one outcome.
func (s *Summary) Add(o Outcome) {
	s.Total++
	switch o.Status {
	case StatusOK:
		s.OK++
	case StatusChanged:
		s.Changed++
	case StatusMissing:
		s.Missing++
	case StatusSkipped:
		s.Skipped++
	case StatusError:
		s.Errors++
	}
}

// ExitCode returns ExitError if anything failed to read, ExitChanged if any
// content changed or went missing, and ExitOK otherwise. Skipped records do
// not affect the exit status.
func (s Summary) ExitCode() int {
	switch {
	case s.Errors > 0:
		return ExitError
	case s.Changed > 0 || s.Missing > 0:
		return ExitChanged
	default:
		return ExitOK
	}
}

// Verifier checks records against the file system.
type Verifier struct {
	fp *fingerprint.Fingerprinter
}

// New returns a Verifier that recomputes with fp.
func New(fp *fingerprint.Fingerprinter) *Verifier {
	return &Verifier{fp: fp}
}

// Check recomputes the fingerprint of expected.Path and compares content.
// Timestamps are reported in Actual but never cause a mismatch.
func (v *Verifier) Check(expected *record.Record) Outcome {
	out := Outcome{Expected: expected}

	actual, err := v.fp.File(expected.Path)
	switch {
	case err == nil:
	case errors.Is(err, meta.ErrStat):
		out.Status, out.Err = StatusMissing, err
		return out
	case errors.Is(err, fingerprint.ErrNotRegular):
		out.Status, out.Err = StatusSkipped, err
		return out
	default:
		logger.Warn("recompute failed", "path", expected.Path, "err", err)
		out.Status, out.Err = StatusError, err
		return out
	}

	out.Actual = actual
	out.Changes = diff(expected, actual)
	if len(out.Changes) > 0 {
		out.Status = StatusChanged
	}
	return out
}

// Run checks every record in order, calling fn with each outcome.
func (v *Verifier) Run(records []*record.Record, fn func(Outcome)) Summary {
	var sum Summary
	for _, rec := range records {
		o := v.Check(rec)
		sum.Add(o)
		if fn != nil {
			fn(o)
		}
	}
	logger.Info("verify finished",
		"total", sum.Total,
		"ok", sum.OK,
		"changed", sum.Changed,
		"missing", sum.Missing,
		"skipped", sum.Skipped,
		"errors", sum.Errors)
	return sum
}

func diff(want, got *record.Record) []string {
	var changes []string
	if want.MD5 != got.MD5 {
		changes = append(changes, "md5")
	}
	if want.SHA1 != got.SHA1 {
		changes = append(changes, "sha1")
	}
	if want.Census.BinaryBytes != got.Census.BinaryBytes {
		changes = append(changes, "binary")
	}
	if want.Census.Lines != got.Census.Lines {
		changes = append(changes, "lines")
	}
	if want.Census.Bytes != got.Census.Bytes {
		changes = append(changes, "bytes")
	}
	return changes
}

package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LineError locates a malformed line within a record stream.
type LineError struct {
	Source string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Scan calls fn for every record in r. Blank lines are skipped. Lines are
// read whole, so paths of any length are accepted. Scanning stops at the
// first malformed line or the first error returned by fn.
func Scan(r io.Reader, source string, fn func(*Record) error) error {
	br := bufio.NewReader(r)
	lineNo := 0

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading %s: %w", source, err)
		}
		if line != "" {
			lineNo++
			if strings.TrimSpace(line) != "" {
				rec, parseErr := Parse(line)
				if parseErr != nil {
					return &LineError{Source: source, Line: lineNo, Err: parseErr}
				}
				if fnErr := fn(rec); fnErr != nil {
					return fnErr
				}
			}
		}
		if err != nil {
			return nil
		}
	}
}

// ReadAll collects every record in r.
func ReadAll(r io.Reader, source string) ([]*Record, error) {
	var out []*Record
	err := Scan(r, source, func(rec *Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

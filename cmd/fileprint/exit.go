package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/meta"
)

// Exit statuses of the fingerprint commands. Existing backup scripts
// branch on these values.
const (
	exitUsage = 1
	exitStat  = 2
	exitOpen  = 10
	exitRead  = 11
	exitClose = 13
)

const usageMessage = "ERROR: One argument required (a file name)"

// exitError carries the process exit status for a failed command. An empty
// msg exits without printing anything.
type exitError struct {
	code   int
	msg    string
	stdout bool
	err    error
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError() error {
	return &exitError{code: exitUsage, msg: usageMessage}
}

func silentExit(code int) error {
	return &exitError{code: code}
}

// fingerprintError maps a fingerprint failure to its exit status and
// diagnostic. A non-regular path is not an error and yields nil.
func fingerprintError(path string, err error) error {
	switch {
	case err == nil, errors.Is(err, fingerprint.ErrNotRegular):
		return nil
	case errors.Is(err, meta.ErrStat), errors.Is(err, meta.ErrEmptyPath):
		return &exitError{
			code:   exitStat,
			msg:    fmt.Sprintf("ERROR: Could not stat file: '%s'", path),
			stdout: true,
			err:    err,
		}
	case errors.Is(err, engine.ErrOpen):
		return &exitError{code: exitOpen, msg: "ERROR: File open: " + systemText(err), err: err}
	case errors.Is(err, engine.ErrRead):
		return &exitError{code: exitRead, msg: "ERROR: File read: " + systemText(err), err: err}
	case errors.Is(err, engine.ErrClose):
		return &exitError{code: exitClose, msg: "ERROR: File close: " + systemText(err), err: err}
	default:
		return err
	}
}

// systemText returns the innermost error text, the part that names the
// operating system failure, e.g. "permission denied".
func systemText(err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	for {
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return err.Error()
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			next := u.Unwrap()
			if next == nil {
				return err.Error()
			}
			err = next
		default:
			return err.Error()
		}
	}
}

// report prints the diagnostic for err and returns the exit status.
func report(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			w := stderr
			if ee.stdout {
				w = stdout
			}
			fmt.Fprintln(w, ee.msg)
		}
		return ee.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}

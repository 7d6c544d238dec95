// Package engine computes digests and a byte census of a stream in a single
// pass. Each chunk read is classified byte by byte and then handed, whole and
// unmodified, to every digest accumulator.
//
// Basic usage:
//
//	res, err := engine.New().ComputeFile("/etc/hosts")
//	if err != nil {
//	    return err
//	}
//	md5sum, _ := res.Sum(engine.MD5)
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
)

var logger = logging.Get("engine")

// DefaultBlockSize is the read size used for each chunk.
const DefaultBlockSize = 128 * 1024

// maxEmptyReads bounds consecutive (0, nil) reads. io.Reader discourages
// such reads but allows them, and a reader that never advances would spin
// forever; past this many the pass fails with io.ErrNoProgress, the same
// limit and error bufio.Reader uses.
const maxEmptyReads = 100

// Errors for each step that touches the file. They are wrapped together with
// the underlying system error.
var (
	ErrOpen  = errors.New("file open")
	ErrRead  = errors.New("file read")
	ErrClose = errors.New("file close")
)

// Engine streams files through a fixed set of digest producers.
type Engine struct {
	blockSize  int
	algorithms []Algorithm
	open       func(path string) (io.ReadCloser, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithBlockSize sets the chunk size. Non-positive values are ignored.
func WithBlockSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.blockSize = n
		}
	}
}

// WithAlgorithms replaces the digest producers. Order is preserved.
func WithAlgorithms(algs ...Algorithm) Option {
	return func(e *Engine) {
		if len(algs) > 0 {
			e.algorithms = algs
		}
	}
}

// WithOpener replaces how ComputeFile opens a path. A nil func is ignored.
func WithOpener(open func(path string) (io.ReadCloser, error)) Option {
	return func(e *Engine) {
		if open != nil {
			e.open = open
		}
	}
}

// New returns an Engine using MD5 then SHA-1 and 128 KiB chunks.
func New(opts ...Option) *Engine {
	e := &Engine{
		blockSize:  DefaultBlockSize,
		algorithms: DefaultAlgorithms,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BlockSize returns the configured chunk size.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// Compute reads r to end-of-stream and returns the digests and census.
// A short read is not an error. Any read error aborts the pass and no
// partial result is returned.
func (e *Engine) Compute(r io.Reader) (*Result, error) {
	state := NewState(e.algorithms)
	buf := make([]byte, e.blockSize)

	empty := 0
	for {
		n, err := r.Read(buf)
		if n > 0 {
			empty = 0
			if updateErr := state.Update(buf[:n]); updateErr != nil {
				return nil, updateErr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, fmt.Errorf("%w: %w", ErrRead, io.ErrNoProgress)
			}
		}
	}

	return state.Finalize()
}

// ComputeFile opens path, streams it through Compute, and closes it.
// The handle is released on every return path; a failed close after a
// complete read is reported as ErrClose.
func (e *Engine) ComputeFile(path string) (res *Result, err error) {
	start := time.Now()

	f, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
	}()

	res, err = e.Compute(f)
	if err != nil {
		logger.Warn("read failed", "path", path, "err", err)
		return nil, err
	}

	closed = true
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClose, err)
	}

	logger.Debug("computed",
		"path", path,
		"bytes", res.Census.Bytes,
		"lines", res.Census.Lines,
		"binary", res.Census.BinaryBytes,
		"elapsed", time.Since(start))

	return res, nil
}

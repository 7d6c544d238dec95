package engine

import (
	"errors"
	"hash"

	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// ErrFinalized is returned when a State is used after Finalize.
var ErrFinalized = errors.New("engine state already finalized")

// State is the accumulator set and census for one pass over a stream.
// It is not safe for concurrent use.
type State struct {
	producers []producer
	census    types.Census
	finalized bool
}

type producer struct {
	name string
	acc  hash.Hash
}

// NewState initializes one accumulator per algorithm, in order.
func NewState(algorithms []Algorithm) *State {
	s := &State{producers: make([]producer, len(algorithms))}
	for i, alg := range algorithms {
		s.producers[i] = producer{name: alg.Name, acc: alg.New()}
	}
	return s
}

// Update classifies every byte of chunk and then feeds the whole chunk to
// each accumulator in algorithm order.
func (s *State) Update(chunk []byte) error {
	if s.finalized {
		return ErrFinalized
	}

	for _, b := range chunk {
		if binaryByte[b] {
			s.census.BinaryBytes++
		}
		if b == '\n' {
			s.census.Lines++
		}
	}
	s.census.Bytes += uint64(len(chunk))

	for _, p := range s.producers {
		// hash.Hash.Write never returns an error.
		_, _ = p.acc.Write(chunk)
	}
	return nil
}

// Census returns the counters observed so far.
func (s *State) Census() types.Census {
	return s.census
}

// Finalize produces the digests. It may be called once.
func (s *State) Finalize() (*Result, error) {
	if s.finalized {
		return nil, ErrFinalized
	}
	s.finalized = true

	res := &Result{
		Digests: make([]Digest, len(s.producers)),
		Census:  s.census,
	}
	for i, p := range s.producers {
		res.Digests[i] = Digest{Algorithm: p.name, Sum: p.acc.Sum(nil)}
	}
	return res, nil
}

// Result is the outcome of one complete pass.
type Result struct {
	// Digests are in algorithm order.
	Digests []Digest

	Census types.Census
}

// Sum returns the digest for the named algorithm.
func (r *Result) Sum(name string) ([]byte, bool) {
	for _, d := range r.Digests {
		if d.Algorithm == name {
			return d.Sum, true
		}
	}
	return nil, false
}

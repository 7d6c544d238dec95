// Package catalog keeps fingerprint records in a Badger store keyed by
// absolute path, so repeated runs over the same files can skip rehashing
// files whose timestamps have not moved.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

var logger = logging.Get("catalog")

// ReusePolicy decides when stored digests stand in for a fresh read.
// Reuse requires at least one of the checks to be enabled, and the stored
// byte count must equal the current size.
type ReusePolicy struct {
	Mtime bool
	Ctime bool
}

func (p ReusePolicy) enabled() bool {
	return p.Mtime || p.Ctime
}

func (p ReusePolicy) allows(target *types.FileTarget, prev *Entry) bool {
	if !p.enabled() {
		return false
	}
	if p.Mtime && target.Mtime != prev.Mtime {
		return false
	}
	if p.Ctime && target.Ctime != prev.Ctime {
		return false
	}
	return target.Size >= 0 && uint64(target.Size) == prev.Bytes
}

// AddResult reports what Add did.
type AddResult struct {
	Record *record.Record

	// Reused is true when the stored record was returned without reading
	// the file.
	Reused bool
}

// Catalog combines a Store with a fingerprinter.
type Catalog struct {
	store  *Store
	fp     *fingerprint.Fingerprinter
	policy ReusePolicy
}

// New returns a Catalog over store. A nil engine uses the default one.
// Records are always computed and stored in the v2 layout.
func New(store *Store, eng *engine.Engine, policy ReusePolicy, opts ...fingerprint.Option) *Catalog {
	if eng != nil {
		opts = append(opts, fingerprint.WithEngine(eng))
	}
	opts = append(opts, fingerprint.WithLayout(record.V2))
	return &Catalog{
		store:  store,
		fp:     fingerprint.New(opts...),
		policy: policy,
	}
}

// Store returns the underlying store.
func (c *Catalog) Store() *Store {
	return c.store
}

// Add fingerprints path and stores the result under its absolute path.
// Unless force is set, an existing entry whose timestamps still match the
// file is returned as is and the file is not read. Errors are the same as
// fingerprint.Fingerprinter.File.
func (c *Catalog) Add(path string, force bool) (*AddResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	target, err := c.fp.Stat(abs)
	if err != nil {
		return nil, err
	}

	if !force && c.policy.enabled() {
		prev, err := c.store.Get(abs)
		switch {
		case err == nil && c.policy.allows(target, prev):
			logger.Debug("reusing stored fingerprint", "path", abs)
			return &AddResult{Record: prev.Record(), Reused: true}, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	rec, err := c.fp.Target(target)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(EntryOf(rec)); err != nil {
		return nil, fmt.Errorf("store %s: %w", abs, err)
	}

	logger.Debug("stored fingerprint", "path", abs, "md5", rec.MD5)
	return &AddResult{Record: rec}, nil
}

// Show returns the stored record for path.
func (c *Catalog) Show(path string) (*record.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	entry, err := c.store.Get(abs)
	if err != nil {
		return nil, err
	}
	return entry.Record(), nil
}

// Remove deletes the stored record for path.
func (c *Catalog) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	return c.store.Delete(abs)
}

// List returns stored records at or under prefix, matched by whole path
// components: /data/a selects /data/a and /data/a/x but not /data/ab, and
// /data/a/ selects only what is below the directory. An
// empty prefix lists everything. A relative prefix is resolved against the
// working directory.
func (c *Catalog) List(prefix string) ([]*record.Record, error) {
	var out []*record.Record
	collect := func(e *Entry) error {
		out = append(out, e.Record())
		return nil
	}

	if prefix == "" {
		return out, c.store.Each("", collect)
	}

	abs, err := filepath.Abs(prefix)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", prefix, err)
	}
	sep := string(filepath.Separator)
	exact := !strings.HasSuffix(prefix, sep)
	dir := abs
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}

	err = c.store.Each(abs, func(e *Entry) error {
		if !(exact && e.Path == abs) && !strings.HasPrefix(e.Path, dir) {
			return nil
		}
		return collect(e)
	})
	return out, err
}

// Duplicates groups every stored record by MD5.
func (c *Catalog) Duplicates(opts record.DupOptions) ([]record.Group, error) {
	recs, err := c.List("")
	if err != nil {
		return nil, err
	}

	entries := make([]record.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = record.Entry{Source: 1, Record: rec}
	}
	return record.Duplicates(entries, opts), nil
}

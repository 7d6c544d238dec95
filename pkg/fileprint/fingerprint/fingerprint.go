// Package fingerprint runs the full pipeline for one path: collect metadata,
// skip anything without file content, stream the content through the engine,
// and assemble a record.
package fingerprint

import (
	"errors"
	"fmt"
	"time"

	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/meta"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

var logger = logging.Get("fingerprint")

// ErrNotRegular is returned for directories, device nodes and other paths
// without file content. Callers treat it as "nothing to report", not as a
// failure.
var ErrNotRegular = errors.New("not a regular file")

// Fingerprinter produces records in a fixed layout.
type Fingerprinter struct {
	engine *engine.Engine
	layout record.Layout
	now    func() time.Time
}

// Option configures a Fingerprinter.
type Option func(*Fingerprinter)

// WithEngine sets the engine used to stream file content.
func WithEngine(e *engine.Engine) Option {
	return func(f *Fingerprinter) {
		f.engine = e
	}
}

// WithLayout sets the record layout. Invalid layouts are ignored.
func WithLayout(l record.Layout) Option {
	return func(f *Fingerprinter) {
		if l.Valid() {
			f.layout = l
		}
	}
}

// WithClock sets the source of capture timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Fingerprinter) {
		f.now = now
	}
}

// New returns a Fingerprinter producing v2 records with a default engine.
func New(opts ...Option) *Fingerprinter {
	f := &Fingerprinter{
		engine: engine.New(),
		layout: record.V2,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Layout returns the layout records are produced in.
func (f *Fingerprinter) Layout() record.Layout {
	return f.layout
}

// Stat collects metadata for path and rejects kinds without content with
// ErrNotRegular. A symlink is accepted: its content is read through the
// link while the record keeps the link's own times.
func (f *Fingerprinter) Stat(path string) (*types.FileTarget, error) {
	target, err := meta.Collect(path)
	if err != nil {
		return nil, err
	}
	if !target.HasContent() {
		logger.Debug("skipping non-regular path", "path", path, "kind", target.Kind)
		return target, fmt.Errorf("%w: %s is %s", ErrNotRegular, path, target.Kind)
	}
	return target, nil
}

// File fingerprints path. Errors wrap meta.ErrStat, ErrNotRegular,
// engine.ErrOpen, engine.ErrRead or engine.ErrClose.
func (f *Fingerprinter) File(path string) (*record.Record, error) {
	target, err := f.Stat(path)
	if err != nil {
		return nil, err
	}
	return f.Target(target)
}

// Target streams an already collected regular file or symlink. A dangling
// link fails with engine.ErrOpen.
func (f *Fingerprinter) Target(target *types.FileTarget) (*record.Record, error) {
	res, err := f.engine.ComputeFile(target.Path)
	if err != nil {
		return nil, err
	}
	return f.Build(target, res), nil
}

// Build assembles a record from metadata and an engine result. The capture
// time is taken when Build runs.
func (f *Fingerprinter) Build(target *types.FileTarget, res *engine.Result) *record.Record {
	md5sum, _ := res.Sum(engine.MD5)
	sha1sum, _ := res.Sum(engine.SHA1)

	return f.assemble(target,
		engine.Digest{Algorithm: engine.MD5, Sum: md5sum}.Hex(),
		engine.Digest{Algorithm: engine.SHA1, Sum: sha1sum}.Hex(),
		res.Census)
}

func (f *Fingerprinter) assemble(target *types.FileTarget, md5hex, sha1hex string, census types.Census) *record.Record {
	rec := &record.Record{
		Layout:   f.layout,
		Captured: uint64(f.now().Unix()),
		MD5:      md5hex,
		SHA1:     sha1hex,
		Census:   census,
		Path:     target.Path,
	}
	if f.layout == record.V2 {
		rec.Atime, rec.Ctime, rec.Mtime = target.Atime, target.Ctime, target.Mtime
	}
	return rec
}

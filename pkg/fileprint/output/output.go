// Package output provides formatters for fingerprint records.
//
// The record formatter writes the canonical line format and is the only
// stable interchange format. The others (json, jsonl, yaml, csv, pretty,
// template) are views of the same data.
//
// The package uses a registry pattern so formatters can be selected by name
// at runtime:
//
//	formatter, err := output.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, &output.Result{Records: recs}); err != nil {
//	    return err
//	}
//	os.Stdout.Write(buf.Bytes())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// Result is the data handed to a formatter.
type Result struct {
	// Records in the order they were produced.
	Records []*record.Record
}

// TotalBytes returns the sum of the byte counters of all records.
func (r *Result) TotalBytes() uint64 {
	var total uint64
	for _, rec := range r.Records {
		total += rec.Census.Bytes
	}
	return total
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any existing
// formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// recordView is the structured shape shared by the json, jsonl and yaml
// formatters.
type recordView struct {
	Path        string `json:"path" yaml:"path"`
	Layout      string `json:"layout" yaml:"layout"`
	Captured    uint64 `json:"captured" yaml:"captured"`
	Atime       uint64 `json:"atime,omitempty" yaml:"atime,omitempty"`
	Ctime       uint64 `json:"ctime,omitempty" yaml:"ctime,omitempty"`
	Mtime       uint64 `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	MD5         string `json:"md5" yaml:"md5"`
	SHA1        string `json:"sha1" yaml:"sha1"`
	BinaryBytes uint64 `json:"binary_bytes" yaml:"binary_bytes"`
	Lines       uint64 `json:"lines" yaml:"lines"`
	Bytes       uint64 `json:"bytes" yaml:"bytes"`
	SizeHuman   string `json:"size_human" yaml:"size_human"`
}

func viewOf(rec *record.Record) recordView {
	return recordView{
		Path:        rec.Path,
		Layout:      rec.Layout.String(),
		Captured:    rec.Captured,
		Atime:       rec.Atime,
		Ctime:       rec.Ctime,
		Mtime:       rec.Mtime,
		MD5:         rec.MD5,
		SHA1:        rec.SHA1,
		BinaryBytes: rec.Census.BinaryBytes,
		Lines:       rec.Census.Lines,
		Bytes:       rec.Census.Bytes,
		SizeHuman:   types.FormatSize(rec.Census.Bytes),
	}
}

func viewsOf(r *Result) []recordView {
	views := make([]recordView, len(r.Records))
	for i, rec := range r.Records {
		views[i] = viewOf(rec)
	}
	return views
}

package catalog

import (
	"bytes"
	"encoding/gob"

	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// Key prefixes. Records live under r:<absolute path>; store metadata lives
// under m:.
const (
	recordPrefix = "r:"
	metaPrefix   = "m:"
)

// Entry is the stored form of a record. Entries always carry all three file
// times, whatever layout the record is later printed in.
type Entry struct {
	Captured    uint64
	Atime       uint64
	Ctime       uint64
	Mtime       uint64
	MD5         string
	SHA1        string
	BinaryBytes uint64
	Lines       uint64
	Bytes       uint64
	Path        string
}

// EntryOf converts a v2 record to an Entry.
func EntryOf(rec *record.Record) *Entry {
	return &Entry{
		Captured:    rec.Captured,
		Atime:       rec.Atime,
		Ctime:       rec.Ctime,
		Mtime:       rec.Mtime,
		MD5:         rec.MD5,
		SHA1:        rec.SHA1,
		BinaryBytes: rec.Census.BinaryBytes,
		Lines:       rec.Census.Lines,
		Bytes:       rec.Census.Bytes,
		Path:        rec.Path,
	}
}

// Record returns the entry as a v2 record.
func (e *Entry) Record() *record.Record {
	return &record.Record{
		Layout:   record.V2,
		Captured: e.Captured,
		Atime:    e.Atime,
		Ctime:    e.Ctime,
		Mtime:    e.Mtime,
		MD5:      e.MD5,
		SHA1:     e.SHA1,
		Census:   types.Census{BinaryBytes: e.BinaryBytes, Lines: e.Lines, Bytes: e.Bytes},
		Path:     e.Path,
	}
}

// Encode serializes the entry to bytes using gob.
func (e *Entry) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the entry using gob.
func (e *Entry) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

func recordKey(absPath string) []byte {
	return []byte(recordPrefix + absPath)
}

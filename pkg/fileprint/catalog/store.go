package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no entry exists for a path.
var ErrNotFound = errors.New("catalog entry not found")

// ErrSchemaTooNew is returned when the store was written by a newer version.
var ErrSchemaTooNew = errors.New("catalog schema is newer than this binary")

// Schema versions:
// 1 - Initial version (r: entries and m: metadata)
const CurrentSchemaVersion = 1

const schemaKey = metaPrefix + "__schema__"

// Schema holds store schema information.
type Schema struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store wraps Badger for catalog entries.
type Store struct {
	db   *badger.DB
	path string
}

// OpenStore opens or creates a catalog store in the directory path and
// stamps a new store with the current schema version.
func OpenStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path cannot be empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.checkSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("catalog opened", "path", path)
	return s, nil
}

// Path returns the directory the store was opened in.
func (s *Store) Path() string {
	return s.path
}

// Close closes the store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) checkSchema() error {
	schema := s.GetSchema()
	switch {
	case schema == nil:
		return s.SetSchema(&Schema{Version: CurrentSchemaVersion, UpdatedAt: time.Now()})
	case schema.Version > CurrentSchemaVersion:
		return fmt.Errorf("%w: version %d", ErrSchemaTooNew, schema.Version)
	default:
		return nil
	}
}

// GetSchema returns the stored schema, or nil if not set.
func (s *Store) GetSchema() *Schema {
	var schema *Schema

	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			schema = &Schema{}
			return json.Unmarshal(val, schema)
		})
	})

	return schema
}

// SetSchema stores the schema version.
func (s *Store) SetSchema(schema *Schema) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(schemaKey), data)
	})
}

// Get retrieves the entry for an absolute path.
func (s *Store) Get(absPath string) (*Entry, error) {
	var entry Entry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(absPath))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(entry.Decode)
	})

	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores an entry under its path.
func (s *Store) Put(entry *Entry) error {
	value, err := entry.Encode()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(entry.Path), value)
	})
}

// Delete removes the entry for an absolute path. Missing entries report
// ErrNotFound.
func (s *Store) Delete(absPath string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := recordKey(absPath)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Each calls fn for every entry whose path starts with pathPrefix, in key
// order. An empty prefix visits every entry.
func (s *Store) Each(pathPrefix string, fn func(*Entry) error) error {
	prefix := recordKey(pathPrefix)

	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry Entry
			if err := it.Item().Value(entry.Decode); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if err := fn(&entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of entries.
func (s *Store) Count() (int, error) {
	n := 0
	prefix := []byte(recordPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Clear removes every entry and keeps the schema.
func (s *Store) Clear() error {
	return s.db.DropPrefix([]byte(recordPrefix))
}

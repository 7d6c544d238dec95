// Package export writes fingerprint records into a SQLite database for
// ad-hoc querying with standard tools.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"

	_ "modernc.org/sqlite"
)

// Meta keys written by an export.
const (
	MetaBatchID    = "batch_id"
	MetaExportTime = "export_time"
	MetaEntryCount = "entry_count"
	MetaLayout     = "layout"
)

// DB is a SQLite database holding exported fingerprints.
type DB struct {
	db *sql.DB
}

// Open initializes (or reuses) a SQLite database at path.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	out := &DB{db: db}
	if err := out.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return out, nil
}

// Close releases the database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
        path TEXT PRIMARY KEY,
        captured INTEGER NOT NULL,
        atime INTEGER NOT NULL DEFAULT 0,
        ctime INTEGER NOT NULL DEFAULT 0,
        mtime INTEGER NOT NULL DEFAULT 0,
        md5 TEXT NOT NULL,
        sha1 TEXT NOT NULL,
        binary_bytes INTEGER NOT NULL,
        lines INTEGER NOT NULL,
        bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
        mkey TEXT PRIMARY KEY,
        mvalue TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fingerprints_md5 ON fingerprints(md5);
`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Batch describes one completed export.
type Batch struct {
	ID       string
	Exported time.Time
	Count    int
	Layout   record.Layout
}

// Write upserts recs in a single transaction and records the batch in the
// meta table. v1 records are stored with zero file times.
func (d *DB) Write(ctx context.Context, recs []*record.Record, layout record.Layout) (*Batch, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO fingerprints(path, captured, atime, ctime, mtime, md5, sha1, binary_bytes, lines, bytes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
        captured=excluded.captured,
        atime=excluded.atime,
        ctime=excluded.ctime,
        mtime=excluded.mtime,
        md5=excluded.md5,
        sha1=excluded.sha1,
        binary_bytes=excluded.binary_bytes,
        lines=excluded.lines,
        bytes=excluded.bytes
`)
	if err != nil {
		return nil, fmt.Errorf("prepare export: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		row := rec
		if rec.Layout != layout {
			if row, err = rec.Convert(layout); err != nil {
				return nil, fmt.Errorf("convert %s: %w", rec.Path, err)
			}
		}
		_, err := stmt.ExecContext(ctx,
			row.Path, int64(row.Captured), int64(row.Atime), int64(row.Ctime), int64(row.Mtime),
			row.MD5, row.SHA1,
			int64(row.Census.BinaryBytes), int64(row.Census.Lines), int64(row.Census.Bytes))
		if err != nil {
			return nil, fmt.Errorf("upsert fingerprint %s: %w", row.Path, err)
		}
	}

	batch := &Batch{
		ID:       uuid.NewString(),
		Exported: time.Now().UTC(),
		Count:    len(recs),
		Layout:   layout,
	}
	meta := map[string]string{
		MetaBatchID:    batch.ID,
		MetaExportTime: strconv.FormatInt(batch.Exported.Unix(), 10),
		MetaEntryCount: strconv.Itoa(batch.Count),
		MetaLayout:     layout.String(),
	}
	for k, v := range meta {
		_, err := tx.ExecContext(ctx, `
INSERT INTO meta(mkey, mvalue) VALUES(?, ?)
ON CONFLICT(mkey) DO UPDATE SET mvalue=excluded.mvalue
`, k, v)
		if err != nil {
			return nil, fmt.Errorf("update meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit export: %w", err)
	}
	return batch, nil
}

// Meta returns the meta table as a map.
func (d *DB) Meta(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT mkey, mvalue FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if scanErr := rows.Scan(&k, &v); scanErr != nil {
			return nil, fmt.Errorf("scan meta: %w", scanErr)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meta: %w", err)
	}
	return out, nil
}

// LoadAll reads every exported fingerprint back as a v2 record, ordered by
// path.
func (d *DB) LoadAll(ctx context.Context) ([]*record.Record, error) {
	rows, err := d.db.QueryContext(ctx, `
SELECT path, captured, atime, ctime, mtime, md5, sha1, binary_bytes, lines, bytes
FROM fingerprints ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	var recs []*record.Record
	for rows.Next() {
		var (
			path                         string
			captured, atime, ctime, mtim int64
			md5, sha1                    string
			binary, lines, size          int64
		)
		if scanErr := rows.Scan(&path, &captured, &atime, &ctime, &mtim, &md5, &sha1, &binary, &lines, &size); scanErr != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", scanErr)
		}
		recs = append(recs, &record.Record{
			Layout:   record.V2,
			Captured: uint64(captured),
			Atime:    uint64(atime),
			Ctime:    uint64(ctime),
			Mtime:    uint64(mtim),
			MD5:      md5,
			SHA1:     sha1,
			Census:   types.Census{BinaryBytes: uint64(binary), Lines: uint64(lines), Bytes: uint64(size)},
			Path:     path,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return recs, nil
}

package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(path string) *Entry {
	return &Entry{
		Captured: 1700000000,
		Atime:    1,
		Ctime:    2,
		Mtime:    3,
		MD5:      record.EmptyMD5,
		SHA1:     "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		Path:     path,
	}
}

func TestStoreOpenStampsSchema(t *testing.T) {
	store := openTestStore(t)

	schema := store.GetSchema()
	require.NotNil(t, schema)
	assert.Equal(t, CurrentSchemaVersion, schema.Version)
}

func TestStoreRejectsNewerSchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	store, err := OpenStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SetSchema(&Schema{Version: CurrentSchemaVersion + 1, UpdatedAt: time.Now()}))
	require.NoError(t, store.Close())

	_, err = OpenStore(dir)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestStoreOpen_EmptyPath(t *testing.T) {
	_, err := OpenStore("  ")
	assert.Error(t, err)
}

func TestStoreGetPut(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("/nope")
	assert.ErrorIs(t, err, ErrNotFound)

	entry := testEntry("/data/file with spaces")
	require.NoError(t, store.Put(entry))

	got, err := store.Get("/data/file with spaces")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestStoreEachAndCount(t *testing.T) {
	store := openTestStore(t)
	for _, p := range []string{"/b/2", "/a/1", "/b/1", "/c"} {
		require.NoError(t, store.Put(testEntry(p)))
	}

	var paths []string
	require.NoError(t, store.Each("/b/", func(e *Entry) error {
		paths = append(paths, e.Path)
		return nil
	}))
	assert.Equal(t, []string{"/b/1", "/b/2"}, paths)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStoreClearKeepsSchema(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Put(testEntry("/x")))

	require.NoError(t, store.Clear())

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NotNil(t, store.GetSchema())
}

func TestEntryRecordRoundTrip(t *testing.T) {
	entry := testEntry("/x")
	rec := entry.Record()
	assert.Equal(t, record.V2, rec.Layout)
	assert.Equal(t, entry, EntryOf(rec))

	data, err := entry.Encode()
	require.NoError(t, err)
	var decoded Entry
	require.NoError(t, decoded.Decode(data))
	assert.Equal(t, *entry, decoded)
}

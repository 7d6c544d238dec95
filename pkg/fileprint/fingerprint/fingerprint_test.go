package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/meta"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func clock() time.Time { return fixedNow }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile_V2(t *testing.T) {
	path := writeFile(t, "abc.txt", "abc\n")
	mtime := time.Unix(1600000000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	rec, err := New(WithClock(clock)).File(path)
	require.NoError(t, err)

	assert.Equal(t, record.V2, rec.Layout)
	assert.Equal(t, uint64(1700000000), rec.Captured)
	assert.Equal(t, uint64(1600000000), rec.Mtime)
	assert.Equal(t, uint64(1600000000), rec.Atime)
	assert.NotZero(t, rec.Ctime)
	assert.Equal(t, "0bee89b07a248e27c83fc3d5951213c1", rec.MD5)
	assert.Equal(t, "03cfd743661f07975fa2f1220c5194cbaff48451", rec.SHA1)
	assert.Equal(t, types.Census{BinaryBytes: 0, Lines: 1, Bytes: 4}, rec.Census)
	assert.Equal(t, path, rec.Path)
}

func TestFile_V1OmitsTimes(t *testing.T) {
	path := writeFile(t, "abc.txt", "abc\n")

	rec, err := New(WithClock(clock), WithLayout(record.V1)).File(path)
	require.NoError(t, err)

	assert.Equal(t, record.V1, rec.Layout)
	assert.Zero(t, rec.Atime)
	assert.Zero(t, rec.Ctime)
	assert.Zero(t, rec.Mtime)
	assert.Equal(t, "1700000000 MD5:0bee89b07a248e27c83fc3d5951213c1 SHA1:03cfd743661f07975fa2f1220c5194cbaff48451 0 1 4 "+path+"\n", rec.Line())
}

func TestFile_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty", "")

	rec, err := New().File(path)
	require.NoError(t, err)
	assert.Equal(t, record.EmptyMD5, rec.MD5)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", rec.SHA1)
	assert.Equal(t, types.Census{}, rec.Census)
}

func TestFile_NotRegular(t *testing.T) {
	rec, err := New().File(t.TempDir())
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotRegular)
}

func TestFile_SymlinkReadsTargetKeepsLinkTimes(t *testing.T) {
	target := writeFile(t, "target", "x")
	old := time.Unix(1500000000, 0)
	require.NoError(t, os.Chtimes(target, old, old))

	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, link))

	rec, err := New(WithClock(clock)).File(link)
	require.NoError(t, err)

	want, err := New(WithClock(clock)).File(target)
	require.NoError(t, err)

	assert.Equal(t, link, rec.Path)
	assert.Equal(t, want.MD5, rec.MD5)
	assert.Equal(t, want.SHA1, rec.SHA1)
	assert.Equal(t, want.Census, rec.Census)
	assert.NotEqual(t, uint64(old.Unix()), rec.Mtime, "mtime should come from the link")
}

func TestFile_DanglingSymlink(t *testing.T) {
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(filepath.Join(t.TempDir(), "gone"), link))

	_, err := New().File(link)
	assert.ErrorIs(t, err, engine.ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_Missing(t *testing.T) {
	_, err := New().File(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, meta.ErrStat)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	path := writeFile(t, "locked", "secret")
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := New().File(path)
	assert.ErrorIs(t, err, engine.ErrOpen)
}

func TestFile_BlockSizeIndependent(t *testing.T) {
	path := writeFile(t, "data", "some\nbytes\x00\x01 across\nblocks\n")

	small, err := New(WithClock(clock), WithEngine(engine.New(engine.WithBlockSize(1)))).File(path)
	require.NoError(t, err)
	large, err := New(WithClock(clock)).File(path)
	require.NoError(t, err)

	assert.Equal(t, large.Line(), small.Line())
}

func TestWithLayout_IgnoresInvalid(t *testing.T) {
	assert.Equal(t, record.V2, New(WithLayout(0)).Layout())
	assert.Equal(t, record.V1, New(WithLayout(record.V1)).Layout())
}

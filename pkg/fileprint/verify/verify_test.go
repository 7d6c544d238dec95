package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, fp *fingerprint.Fingerprinter, path, content string) *record.Record {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	rec, err := fp.File(path)
	require.NoError(t, err)
	return rec
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	fp := fingerprint.New()
	v := New(fp)

	t.Run("unchanged", func(t *testing.T) {
		rec := snapshot(t, fp, filepath.Join(dir, "same"), "hello\n")
		o := v.Check(rec)
		assert.Equal(t, StatusOK, o.Status)
		assert.Empty(t, o.Changes)
		assert.NotNil(t, o.Actual)
	})

	t.Run("changed content", func(t *testing.T) {
		path := filepath.Join(dir, "changed")
		rec := snapshot(t, fp, path, "hello\n")
		require.NoError(t, os.WriteFile(path, []byte("hello\nworld\n"), 0o644))

		o := v.Check(rec)
		assert.Equal(t, StatusChanged, o.Status)
		assert.Equal(t, []string{"md5", "sha1", "lines", "bytes"}, o.Changes)
	})

	t.Run("missing", func(t *testing.T) {
		path := filepath.Join(dir, "gone")
		rec := snapshot(t, fp, path, "x")
		require.NoError(t, os.Remove(path))

		o := v.Check(rec)
		assert.Equal(t, StatusMissing, o.Status)
		assert.Error(t, o.Err)
	})

	t.Run("now a directory", func(t *testing.T) {
		path := filepath.Join(dir, "became-dir")
		rec := snapshot(t, fp, path, "x")
		require.NoError(t, os.Remove(path))
		require.NoError(t, os.Mkdir(path, 0o755))

		o := v.Check(rec)
		assert.Equal(t, StatusSkipped, o.Status)
	})

	t.Run("unreadable", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores permission bits")
		}
		path := filepath.Join(dir, "locked")
		rec := snapshot(t, fp, path, "x")
		require.NoError(t, os.Chmod(path, 0o000))

		o := v.Check(rec)
		assert.Equal(t, StatusError, o.Status)
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	fp := fingerprint.New()

	okRec := snapshot(t, fp, filepath.Join(dir, "a"), "a")
	goneRec := snapshot(t, fp, filepath.Join(dir, "b"), "b")
	require.NoError(t, os.Remove(goneRec.Path))

	var seen []Status
	sum := New(fp).Run([]*record.Record{okRec, goneRec}, func(o Outcome) {
		seen = append(seen, o.Status)
	})

	assert.Equal(t, []Status{StatusOK, StatusMissing}, seen)
	assert.Equal(t, Summary{Total: 2, OK: 1, Missing: 1}, sum)
	assert.Equal(t, ExitChanged, sum.ExitCode())
}

func TestSummary_ExitCode(t *testing.T) {
	tests := []struct {
		name string
		sum  Summary
		want int
	}{
		{name: "empty", sum: Summary{}, want: ExitOK},
		{name: "all ok", sum: Summary{Total: 3, OK: 3}, want: ExitOK},
		{name: "skipped only", sum: Summary{Total: 1, Skipped: 1}, want: ExitOK},
		{name: "changed", sum: Summary{Total: 2, OK: 1, Changed: 1}, want: ExitChanged},
		{name: "missing", sum: Summary{Total: 1, Missing: 1}, want: ExitChanged},
		{name: "error wins", sum: Summary{Total: 2, Changed: 1, Errors: 1}, want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sum.ExitCode())
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "CHANGED", StatusChanged.String())
	assert.Equal(t, "MISSING", StatusMissing.String())
	assert.Equal(t, "SKIPPED", StatusSkipped.String())
	assert.Equal(t, "ERROR", StatusError.String())
}

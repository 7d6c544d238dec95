package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dupRecord(md5, path string) *Record {
	return &Record{Layout: V1, MD5: md5, SHA1: abcSHA1, Path: path}
}

func TestDuplicates(t *testing.T) {
	other := strings.Repeat("1", 32)
	entries := []Entry{
		{Source: 1, Record: dupRecord(abcMD5, "/a")},
		{Source: 1, Record: dupRecord(other, "/unique")},
		{Source: 1, Record: dupRecord(EmptyMD5, "/empty1")},
		{Source: 2, Record: dupRecord(abcMD5, "/b")},
		{Source: 2, Record: dupRecord(EmptyMD5, "/empty2")},
		{Source: 2, Record: dupRecord(abcMD5, "/c")},
	}

	t.Run("default skips empty", func(t *testing.T) {
		groups := Duplicates(entries, DupOptions{})
		require.Len(t, groups, 1)
		assert.Equal(t, abcMD5, groups[0].MD5)
		require.Len(t, groups[0].Entries, 3)
		assert.Equal(t, "/a", groups[0].Entries[0].Record.Path)
		assert.Equal(t, 2, groups[0].Entries[1].Source)
		assert.Equal(t, "/c", groups[0].Entries[2].Record.Path)
	})

	t.Run("include empty", func(t *testing.T) {
		groups := Duplicates(entries, DupOptions{IncludeEmpty: true})
		require.Len(t, groups, 2)
		assert.Equal(t, abcMD5, groups[0].MD5)
		assert.Equal(t, EmptyMD5, groups[1].MD5)
	})

	t.Run("filter applies before group size", func(t *testing.T) {
		groups := Duplicates(entries, DupOptions{
			Keep: func(r *Record) bool { return r.Path != "/b" && r.Path != "/c" },
		})
		assert.Empty(t, groups)
	})
}

func TestDuplicates_Empty(t *testing.T) {
	assert.Empty(t, Duplicates(nil, DupOptions{}))
}

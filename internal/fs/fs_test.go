package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "api.kb")

	require.NoError(t, WriteFileAtomic(Default, path, []byte("first"), 0o644))
	got, err := ReadFile(Default, path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	require.NoError(t, WriteFileAtomic(Default, path, []byte("second"), 0o644))
	got, err = ReadFile(Default, path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomicFaults(t *testing.T) {
	cases := []struct {
		name  string
		fault Fault
	}{
		{"write", Fault{FailAfterBytes: 2}},
		{"sync", Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"rename", Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "api.kb")
			require.NoError(t, WriteFileAtomic(Default, path, []byte("old"), 0o644))

			ffs := NewFaultyFS(nil)
			ffs.AddRule("api.kb", tc.fault)

			err := WriteFileAtomic(ffs, path, []byte("replacement"), 0o644)
			require.ErrorIs(t, err, ErrInjected)

			got, err := ReadFile(Default, path)
			require.NoError(t, err)
			assert.Equal(t, "old", string(got), "failed publish must keep the previous file")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.kb")

	_, ok, err := ModTime(Default, path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	mt, ok, err := ModTime(Default, path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mt.IsZero())
}

func TestFaultyFSCountsWrites(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	path := filepath.Join(t.TempDir(), "data")

	f, err := ffs.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, int64(5), ffs.Written())
	assert.NoError(t, ffs.Remove(path))
}

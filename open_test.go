package apilevel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/apilevel/blobstore"
	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/descriptor"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/internal/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDescriptor = `<?xml version="1.0" encoding="utf-8"?>
<api version="3">
	<class name="java/lang/Object" since="1">
		<method name="&lt;init&gt;()V"/>
		<method name="hashCode()I"/>
	</class>
	<class name="android/view/ViewGroup" since="1">
		<extends name="java/lang/Object"/>
		<method name="addView(Landroid/view/View;)V"/>
	</class>
	<class name="android/widget/Toolbar" since="21">
		<extends name="android/view/ViewGroup"/>
		<method name="setTitle(Ljava/lang/CharSequence;)V"/>
		<method name="setSubtitle(I)V" since="24" deprecated="30"/>
		<field name="LEGACY" since="22" removed="28"/>
	</class>
</api>
`

func writeDescriptor(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "api-versions.xml")
	require.NoError(t, os.WriteFile(path, []byte(testDescriptor), 0o600))
	return path
}

func checkDB(t *testing.T, db *DB) {
	t.Helper()
	assert.Equal(t, 21, db.ClassVersion("android/widget/Toolbar"))
	assert.Equal(t, 24, db.MethodVersion("android/widget/Toolbar", "setSubtitle", "(I)V"))
	assert.Equal(t, 30, db.MethodDeprecatedIn("android/widget/Toolbar", "setSubtitle", "(I)V"))
	assert.Equal(t, 21, db.MethodVersion("android/widget/Toolbar", "hashCode", "()I"))
	assert.Equal(t, 28, db.FieldRemovedIn("android/widget/Toolbar", "LEGACY"))
	assert.Equal(t, 21, db.ValidCastVersion("android/widget/Toolbar", "android/view/ViewGroup"))
	assert.True(t, db.IsValidPackage("android/widget/Toolbar"))
	assert.Equal(t, None, db.ClassVersion("android/widget/Missing"))
}

func TestOpenRegeneratesMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	cache := filepath.Join(dir, "cache")
	metrics := &BasicMetricsCollector{}

	db, err := Open(context.Background(),
		WithDescriptor(desc),
		WithCacheDir(cache),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, SourceRegenerated, db.Source())
	assert.Equal(t, filepath.Join(cache, DefaultDatabaseName), db.Path())
	assert.Positive(t, db.Size())
	checkDB(t, db)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.RegenerateCount)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Zero(t, stats.LoadErrors)
}

func TestOpenReusesCache(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	first, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	metrics := &BasicMetricsCollector{}
	db, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir), WithMetricsCollector(metrics))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, SourceCache, db.Source())
	assert.Zero(t, metrics.GetStats().RegenerateCount)
	checkDB(t, db)
}

func TestOpenRegeneratesStaleDatabase(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	first, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(desc, future, future))

	db, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, SourceRegenerated, db.Source())
}

func TestOpenRegeneratesInvalidDatabase(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("definitely not a knowledge base")},
		{"format version", append([]byte(kb.Magic), 99, 0, 0, 0, 0, 0, 0, 0, 0)},
		{"truncated", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			desc := writeDescriptor(t, dir)
			path := filepath.Join(dir, DefaultDatabaseName)

			data := tt.data
			if tt.name == "truncated" {
				api, err := descriptor.Load(desc)
				require.NoError(t, err)
				full, _, err := kb.Encode(api)
				require.NoError(t, err)
				data = full[:len(full)-3]
			}
			require.NoError(t, os.WriteFile(path, data, 0o600))
			// Make the broken file newer than the descriptor.
			future := time.Now().Add(time.Hour)
			require.NoError(t, os.Chtimes(path, future, future))

			metrics := &BasicMetricsCollector{}
			db, err := Open(context.Background(),
				WithDescriptor(desc),
				WithCacheDir(dir),
				WithMetricsCollector(metrics),
			)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			assert.Equal(t, SourceRegenerated, db.Source())
			assert.Equal(t, int64(1), metrics.GetStats().RegenerateCount)
			checkDB(t, db)
		})
	}
}

func TestOpenWithoutMmap(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	db, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir), WithoutMmap())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	checkDB(t, db)
}

func TestOpenNoDatabase(t *testing.T) {
	_, err := Open(context.Background(), WithCacheDir(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDatabase)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ReasonMissing, le.Reason)
}

func TestOpenCorruptWithoutDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultDatabaseName), []byte("garbage!"), 0o600))

	_, err := Open(context.Background(), WithCacheDir(dir))
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestOpenFallsBackToModel(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule(DefaultDatabaseName, fs.Fault{FailAfterBytes: -1, FailOnRename: true})

	_, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir), WithFileSystem(faulty))
	require.ErrorIs(t, err, ErrNoDatabase)
	require.ErrorIs(t, err, fs.ErrInjected)

	metrics := &BasicMetricsCollector{}
	db, err := Open(context.Background(),
		WithDescriptor(desc),
		WithCacheDir(dir),
		WithFileSystem(faulty),
		WithModelFallback(),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, SourceModel, db.Source())
	assert.Zero(t, db.Size())
	assert.Equal(t, int64(1), metrics.GetStats().FallbackCount)
	checkDB(t, db)

	_, err = os.Stat(filepath.Join(dir, DefaultDatabaseName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenReadsThroughFileSystem(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	db, err := Open(ctx, WithDescriptor(desc), WithCacheDir(dir))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	t.Run("database read", func(t *testing.T) {
		faulty := fs.NewFaultyFS(nil)
		db, err := Open(ctx, WithCacheDir(dir), WithFileSystem(faulty))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		assert.Equal(t, SourceCache, db.Source())
		checkDB(t, db)

		faulty.AddRule(DefaultDatabaseName, fs.Fault{FailAfterBytes: -1, FailOnRead: true})
		_, err = Open(ctx, WithCacheDir(dir), WithFileSystem(faulty))
		assert.ErrorIs(t, err, ErrNoDatabase)
		assert.ErrorIs(t, err, fs.ErrInjected)
	})

	t.Run("descriptor read", func(t *testing.T) {
		faulty := fs.NewFaultyFS(nil)
		faulty.AddRule("api-versions.xml", fs.Fault{FailAfterBytes: -1, FailOnRead: true})

		_, err := Open(ctx, WithDescriptor(desc), WithCacheDir(t.TempDir()), WithFileSystem(faulty))
		assert.ErrorIs(t, err, ErrNoDatabase)
		assert.ErrorIs(t, err, fs.ErrInjected)
	})
}

func TestOpenDownloadsRemote(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	api, err := descriptor.Load(desc)
	require.NoError(t, err)
	data, _, err := kb.Encode(api)
	require.NoError(t, err)

	for _, c := range []codec.Compression{codec.None, codec.Zstd, codec.LZ4, codec.Gzip} {
		t.Run(c.String(), func(t *testing.T) {
			blob, err := codec.Compress(c, data)
			require.NoError(t, err)

			store := blobstore.NewMemoryStore()
			require.NoError(t, store.Put(ctx, "android.kb"+c.Extension(), blob))

			cache := t.TempDir()
			db, err := Open(ctx, WithCacheDir(cache), WithRemote(store, "android.kb"+c.Extension()))
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			assert.Equal(t, SourceRemote, db.Source())
			checkDB(t, db)

			_, err = os.Stat(filepath.Join(cache, DefaultDatabaseName))
			assert.NoError(t, err)
		})
	}
}

func TestOpenRemoteMissingRegenerates(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	db, err := Open(context.Background(),
		WithDescriptor(desc),
		WithCacheDir(dir),
		WithRemote(blobstore.NewMemoryStore(), "absent.kb"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, SourceRegenerated, db.Source())
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, WithCacheDir(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDBClose(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)

	db, err := Open(context.Background(), WithDescriptor(desc), WithCacheDir(dir))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.ErrorIs(t, db.Close(), ErrClosed)
	assert.Equal(t, None, db.ClassVersion("android/widget/Toolbar"))
	assert.False(t, db.ContainsClass("android/widget/Toolbar"))
}

package apilevel

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetCaches(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	metrics := &BasicMetricsCollector{}

	reg := NewRegistry(2, WithDescriptor(desc), WithCacheDir(dir), WithMetricsCollector(metrics))
	t.Cleanup(func() { _ = reg.Close() })

	ctx := context.Background()
	a, err := reg.Get(ctx, "35", WithDatabaseName("35.kb"))
	require.NoError(t, err)
	b, err := reg.Get(ctx, "35", WithDatabaseName("35.kb"))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, int64(1), metrics.GetStats().LoadCount)
	assert.Equal(t, filepath.Join(dir, "35.kb"), a.Path())
	checkDB(t, a)
}

func TestRegistryConcurrentGetSharesLoad(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	metrics := &BasicMetricsCollector{}

	reg := NewRegistry(4, WithDescriptor(desc), WithCacheDir(dir), WithMetricsCollector(metrics))
	t.Cleanup(func() { _ = reg.Close() })

	const workers = 16
	dbs := make([]*DB, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := reg.Get(context.Background(), "shared")
			if assert.NoError(t, err) {
				dbs[i] = db
			}
		}(i)
	}
	wg.Wait()

	for _, db := range dbs {
		assert.Same(t, dbs[0], db)
	}
	assert.Equal(t, int64(1), metrics.GetStats().RegenerateCount)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryEvictsAndCloses(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	ctx := context.Background()

	reg := NewRegistry(2, WithDescriptor(desc), WithCacheDir(dir))

	first, err := reg.Get(ctx, "a", WithDatabaseName("a.kb"))
	require.NoError(t, err)
	_, err = reg.Get(ctx, "b", WithDatabaseName("b.kb"))
	require.NoError(t, err)
	_, err = reg.Get(ctx, "c", WithDatabaseName("c.kb"))
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b"}, reg.Keys())
	assert.Equal(t, None, first.ClassVersion("android/widget/Toolbar"))
	assert.ErrorIs(t, first.Close(), ErrClosed)

	b, err := reg.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, reg.Remove("b"))
	assert.False(t, reg.Remove("b"))
	assert.Equal(t, None, b.ClassVersion("android/widget/Toolbar"))

	c, err := reg.Get(ctx, "c")
	require.NoError(t, err)
	require.NoError(t, reg.Close())
	assert.ErrorIs(t, reg.Close(), ErrClosed)
	assert.Equal(t, 0, reg.Len())
	assert.False(t, c.ContainsClass("android/widget/Toolbar"))

	_, err = reg.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRegistryGetError(t *testing.T) {
	reg := NewRegistry(1, WithCacheDir(t.TempDir()))
	t.Cleanup(func() { _ = reg.Close() })

	_, err := reg.Get(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryEvictionDuringQueries(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	ctx := context.Background()

	reg := NewRegistry(1, WithDescriptor(desc), WithCacheDir(dir))
	t.Cleanup(func() { _ = reg.Close() })

	a, err := reg.Get(ctx, "a", WithDatabaseName("a.kb"))
	require.NoError(t, err)
	require.Equal(t, SourceRegenerated, a.Source())

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 5000; j++ {
				v := a.MethodVersion("android/widget/Toolbar", "setSubtitle", "(I)V")
				if v != 24 && v != None {
					t.Errorf("unexpected version %d", v)
					return
				}
			}
		}()
	}

	close(start)
	_, err = reg.Get(ctx, "b", WithDatabaseName("b.kb"))
	require.NoError(t, err)
	wg.Wait()

	assert.Equal(t, []string{"b"}, reg.Keys())
	assert.Equal(t, None, a.ClassVersion("android/widget/Toolbar"))
}

func TestRegistryGetRacingClose(t *testing.T) {
	dir := t.TempDir()
	desc := writeDescriptor(t, dir)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		reg := NewRegistry(8, WithDescriptor(desc), WithCacheDir(dir))

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			got []*DB
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				db, err := reg.Get(ctx, fmt.Sprintf("k%d", i), WithDatabaseName(fmt.Sprintf("k%d.kb", i)))
				if err != nil {
					assert.ErrorIs(t, err, ErrClosed)
					return
				}
				mu.Lock()
				got = append(got, db)
				mu.Unlock()
			}(i)
		}
		require.NoError(t, reg.Close())
		wg.Wait()

		assert.Equal(t, 0, reg.Len())
		for _, db := range got {
			assert.False(t, db.ContainsClass("android/widget/Toolbar"), "db left open after Close")
		}
	}
}

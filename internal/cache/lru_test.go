package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	var evicted []string
	c := NewLRU[string, int](2, func(k string, v int) {
		evicted = append(evicted, fmt.Sprintf("%s=%d", k, v))
	})

	c.Add("a", 1)
	c.Add("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// "b" is least recently used.
	c.Add("c", 3)
	assert.Equal(t, []string{"b=2"}, evicted)
	assert.Equal(t, []string{"c", "a"}, c.Keys())

	_, ok = c.Get("b")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUReplaceEvictsOldValue(t *testing.T) {
	var evicted []int
	c := NewLRU[string, int](2, func(_ string, v int) { evicted = append(evicted, v) })

	c.Add("a", 1)
	c.Add("a", 2)

	v, _ := c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{1}, evicted)
	assert.Equal(t, 1, c.Len())
}

func TestLRURemoveAndPurge(t *testing.T) {
	var evicted int
	c := NewLRU[int, string](4, func(int, string) { evicted++ })

	for i := 0; i < 4; i++ {
		c.Add(i, "v")
	}
	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))
	assert.Equal(t, 1, evicted)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 4, evicted)
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0, nil)
	c.Add(1, 1)
	c.Add(2, 2)
	assert.Equal(t, 1, c.Len())
}

func TestLRUConcurrent(t *testing.T) {
	c := NewLRU[int, int](16, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				c.Add((g*1000+i)%64, i)
				c.Get(i % 64)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}

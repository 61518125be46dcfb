package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGReset(t *testing.T) {
	rng := NewRNG(4711)
	a := []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)}

	rng.Reset()
	b := []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)}

	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestRNGVersion(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 100; i++ {
		v := rng.Version(3, 9)
		assert.GreaterOrEqual(t, int(v), 3)
		assert.LessOrEqual(t, int(v), 9)
	}
	assert.Equal(t, 5, int(rng.Version(5, 5)))
}

func TestRandomAPIDeterministic(t *testing.T) {
	opts := DefaultAPIOptions()

	a := RandomAPI(NewRNG(42), opts)
	b := RandomAPI(NewRNG(42), opts)

	require.Equal(t, a.Len(), b.Len())
	assert.Equal(t, opts.Classes, a.Len())
	for _, c := range a.Classes() {
		other := b.Class(c.Name())
		require.NotNil(t, other)
		assert.Equal(t, c.Info(), other.Info())
		assert.Equal(t, c.Supers(), other.Supers())
		assert.Equal(t, c.Interfaces(), other.Interfaces())
		assert.Equal(t, c.ExplicitMembers(a), other.ExplicitMembers(b))
	}
}

package apilevel

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/apilevel/internal/cache"
	"golang.org/x/sync/singleflight"
)

// Registry keeps a bounded set of opened knowledge bases, keyed by a
// caller-chosen name such as the target platform version. It is owned by
// the host: create one at startup and Close it at shutdown.
//
// Entries pushed out by capacity, Remove or Close are closed, after which
// their queries answer None. Closing waits for queries already running on
// the entry, so a DB may be queried while another goroutine evicts it. Do
// not Close a DB obtained from a Registry.
type Registry struct {
	opts   []Option
	lru    *cache.LRU[string, *DB]
	group  singleflight.Group
	closed atomic.Bool
}

// NewRegistry creates a registry holding at most capacity open knowledge
// bases. opts apply to every Open performed by the registry.
func NewRegistry(capacity int, opts ...Option) *Registry {
	return &Registry{
		opts: opts,
		lru: cache.NewLRU(capacity, func(_ string, db *DB) {
			_ = db.Close()
		}),
	}
}

// Get returns the knowledge base cached under key, opening it with the
// registry options followed by opts on a miss. Concurrent misses for the
// same key share a single Open, which runs with the first caller's context.
func (r *Registry) Get(ctx context.Context, key string, opts ...Option) (*DB, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if db, ok := r.lru.Get(key); ok {
		return db, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if db, ok := r.lru.Get(key); ok {
			return db, nil
		}
		all := make([]Option, 0, len(r.opts)+len(opts))
		all = append(all, r.opts...)
		all = append(all, opts...)

		db, err := Open(ctx, all...)
		if err != nil {
			return nil, err
		}
		r.lru.Add(key, db)
		// Close may have purged the cache between the check above and Add.
		if r.closed.Load() {
			if !r.lru.Remove(key) {
				_ = db.Close()
			}
			return nil, ErrClosed
		}
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DB), nil
}

// Remove closes and forgets the knowledge base cached under key.
func (r *Registry) Remove(key string) bool {
	return r.lru.Remove(key)
}

// Keys returns the cached keys from most to least recently used.
func (r *Registry) Keys() []string {
	return r.lru.Keys()
}

// Len returns the number of open knowledge bases.
func (r *Registry) Len() int {
	return r.lru.Len()
}

// Close closes every cached knowledge base. Closing twice returns ErrClosed.
func (r *Registry) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	r.lru.Purge()
	return nil
}

package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/model"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64() < p
}

// Version returns a version in [lo, hi]. lo must be at least 1.
func (r *RNG) Version(lo, hi model.Version) model.Version {
	if hi <= lo {
		return lo
	}
	return lo + model.Version(r.Intn(int(hi-lo)+1))
}

// APIOptions controls the shape of RandomAPI.
type APIOptions struct {
	Packages    int
	Classes     int
	Members     int     // maximum declared members per class
	Interfaces  int     // maximum interface edges per class
	MaxVersion  model.Version
	Deprecation float64 // probability of a deprecation per class or member
	Removal     float64 // probability of a removal per class, member or edge
	Unknown     float64 // probability of an edge to a class outside the API
}

// DefaultAPIOptions returns options producing a small but dense API.
func DefaultAPIOptions() APIOptions {
	return APIOptions{
		Packages:    4,
		Classes:     40,
		Members:     6,
		Interfaces:  2,
		MaxVersion:  34,
		Deprecation: 0.2,
		Removal:     0.15,
		Unknown:     0.05,
	}
}

// memberPool is shared across classes so that overrides and diamond
// inheritance occur frequently.
var memberPool = []string{
	"<init>()V", "<init>(I)V", "size()I", "get(I)Ljava/lang/Object;",
	"toString()Ljava/lang/String;", "close()V", "run()V", "apply(Ljava/lang/Object;)Z",
	"count", "VALUE", "mode", "next",
}

// RandomAPI builds a cycle-free API. Classes only inherit from classes created
// before them, so the inheritance graph is a DAG.
func RandomAPI(rng *RNG, opts APIOptions) *graph.API {
	b := graph.NewBuilder()
	names := make([]string, 0, opts.Classes)

	for i := 0; i < opts.Classes; i++ {
		name := fmt.Sprintf("p%d/C%03d", rng.Intn(opts.Packages), i)
		since := rng.Version(1, opts.MaxVersion)
		cb := b.Class(name, since)

		if rng.Chance(opts.Deprecation) {
			cb.Deprecated(rng.Version(since, opts.MaxVersion))
		}
		if rng.Chance(opts.Removal) {
			cb.Removed(rng.Version(since, opts.MaxVersion))
		}

		if len(names) > 0 && rng.Chance(0.8) {
			cb.ExtendsEdge(randomEdge(rng, opts, names[rng.Intn(len(names))], since))
		}
		for n := rng.Intn(opts.Interfaces + 1); n > 0 && len(names) > 0; n-- {
			target := names[rng.Intn(len(names))]
			if rng.Chance(opts.Unknown) {
				target = fmt.Sprintf("ext/Missing%d", rng.Intn(4))
			}
			cb.ImplementsEdge(randomEdge(rng, opts, target, since))
		}

		for n := rng.Intn(opts.Members + 1); n > 0; n-- {
			sig := memberPool[rng.Intn(len(memberPool))]
			info := model.VersionInfo{Since: rng.Version(since, opts.MaxVersion)}
			if rng.Chance(0.3) {
				info.Since = since
			}
			if rng.Chance(opts.Deprecation) {
				info.Deprecated = rng.Version(info.Since, opts.MaxVersion)
			}
			if rng.Chance(opts.Removal) {
				info.Removed = rng.Version(info.Since, opts.MaxVersion)
			}
			cb.Member(sig, info)
		}

		names = append(names, name)
	}

	api, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("testutil: random api is invalid: %v", err))
	}
	return api
}

func randomEdge(rng *RNG, opts APIOptions, target string, since model.Version) graph.Edge {
	e := graph.Edge{Name: target, Since: since}
	if rng.Chance(0.3) {
		e.Since = rng.Version(since, opts.MaxVersion)
	}
	if rng.Chance(opts.Removal) {
		e.RemovedIn = rng.Version(e.Since, opts.MaxVersion)
	}
	return e
}

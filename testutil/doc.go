// Package testutil provides testing utilities for apilevel.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random APIs with multi-level inheritance,
// time-stamped edges, deprecations and removals, which are used to check
// that the binary knowledge base answers exactly like the version graph.
//
//	rng := testutil.NewRNG(seed)
//	api := testutil.RandomAPI(rng, testutil.DefaultAPIOptions())
package testutil

// Package cache provides a generic, count-bounded LRU cache.
//
// Eviction calls an optional callback outside the cache lock, which lets
// owners of expensive values (open databases, memory mappings) release them
// without holding up other callers.
package cache

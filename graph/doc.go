// Package graph implements the version graph model: the in-memory
// representation of every class of a platform API, its time-stamped edges
// to superclasses and interfaces, and the inheritance-aware resolution of
// member lifecycles.
//
// Classes live in an arena owned by API and refer to their ancestors by
// name. Resolution methods take the owning API explicitly instead of
// holding a back-reference:
//
//	b := graph.NewBuilder()
//	b.Class("java/lang/Object", 1).Method("hashCode()I", 1)
//	b.Class("java/lang/String", 1).Extends("java/lang/Object", 1)
//	api, err := b.Build()
//
//	c := api.Class("java/lang/String")
//	since := c.MemberSince(api, "hashCode()") // 1
//
// An API is read-only once built and safe for concurrent use.
//
// # Resolution
//
// A member inherited through an edge (A, e) that A declares at version v is
// usable from version max(e, v). When several paths reach a member the
// smallest candidate wins. Deprecation follows the same shape and is folded
// with the class's own deprecation. Removal is three-state (see Removal):
// a member is removed only once every path that could supply it is removed.
//
// Ancestors that are not part of the API are skipped silently so partial
// descriptors still resolve what they can.
package graph

package graph

import (
	"sort"

	"github.com/hupe1980/apilevel/model"
)

// Edge is a time-stamped relationship from a class to a superclass or an
// implemented interface.
type Edge struct {
	Name      string        `json:"name"`
	Since     model.Version `json:"since"`
	RemovedIn model.Version `json:"removed,omitempty"`
}

// Class is one class of the API together with its version facts.
type Class struct {
	id   int
	name string
	info model.VersionInfo

	supers     []Edge
	interfaces []Edge

	fields     map[string]model.Version
	methods    map[string]model.Version
	deprecated map[string]model.Version
	removed    map[string]model.Version
}

func newClass(id int, name string, since model.Version) *Class {
	return &Class{
		id:      id,
		name:    name,
		info:    model.VersionInfo{Since: since},
		fields:  make(map[string]model.Version),
		methods: make(map[string]model.Version),
	}
}

// ID returns the arena index of the class.
func (c *Class) ID() int { return c.id }

// Name returns the internal (slash separated) class name.
func (c *Class) Name() string { return c.name }

// Package returns the package part of the class name.
func (c *Class) Package() string {
	pkg, _ := model.SplitClassName(c.name)
	return pkg
}

// SimpleName returns the class name without its package.
func (c *Class) SimpleName() string {
	_, simple := model.SplitClassName(c.name)
	return simple
}

// Info returns the class's own lifecycle.
func (c *Class) Info() model.VersionInfo { return c.info }

// Since returns the version the class was introduced in.
func (c *Class) Since() model.Version { return c.info.Since }

// DeprecatedIn returns the version the class was deprecated in, or 0.
func (c *Class) DeprecatedIn() model.Version { return c.info.Deprecated }

// RemovedIn returns the version the class was removed in, or 0.
func (c *Class) RemovedIn() model.Version { return c.info.Removed }

// Supers returns the superclass edges in declaration order.
func (c *Class) Supers() []Edge { return c.supers }

// Interfaces returns the interface edges in declaration order.
func (c *Class) Interfaces() []Edge { return c.interfaces }

// Fields returns the names of the fields declared by the class, sorted.
func (c *Class) Fields() []string { return sortedKeys(c.fields) }

// Methods returns the signatures of the methods declared by the class, sorted.
func (c *Class) Methods() []string { return sortedKeys(c.methods) }

// Declares reports whether the class itself declares the member.
func (c *Class) Declares(sig string) bool {
	_, ok := c.own(sig)
	return ok
}

func (c *Class) own(sig string) (model.Version, bool) {
	if model.IsMethodSignature(sig) {
		v, ok := c.methods[sig]
		return v, ok
	}
	v, ok := c.fields[sig]
	return v, ok
}

// edges calls fn for every superclass edge followed by every interface edge.
func (c *Class) edges(fn func(e Edge)) {
	for _, e := range c.supers {
		fn(e)
	}
	for _, e := range c.interfaces {
		fn(e)
	}
}

func (c *Class) clamp(v model.Version) model.Version {
	if v < c.info.Since {
		return c.info.Since
	}
	return v
}

func (c *Class) addMember(sig string, since model.Version) {
	sig = model.NormalizeSignature(sig)
	since = c.clamp(since)
	table := c.fields
	if model.IsMethodSignature(sig) {
		table = c.methods
	}
	// Signatures differing only by return type collapse onto one entry.
	if prev, ok := table[sig]; ok && prev <= since {
		return
	}
	table[sig] = since
}

func (c *Class) setMemberVersion(m *map[string]model.Version, sig string, v model.Version) {
	if v == 0 {
		return
	}
	if *m == nil {
		*m = make(map[string]model.Version)
	}
	sig = model.NormalizeSignature(sig)
	if prev, ok := (*m)[sig]; ok && prev <= v {
		return
	}
	(*m)[sig] = v
}

func addEdge(edges []Edge, e Edge) []Edge {
	for i := range edges {
		if edges[i].Name == e.Name {
			if e.Since < edges[i].Since {
				edges[i].Since = e.Since
			}
			edges[i].RemovedIn = e.RemovedIn
			return edges
		}
	}
	return append(edges, e)
}

func sortedKeys(m map[string]model.Version) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

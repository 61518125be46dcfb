package graph

import (
	"math"
	"sort"
	"strconv"

	"github.com/hupe1980/apilevel/model"
)

// Removal is the outcome of removal resolution. Besides a concrete removal
// version it distinguishes a member that is still reachable (NotRemoved)
// from one that no path ever supplied (NeverExisted).
type Removal int

const (
	// NeverExisted means neither the class nor any ancestor declares the member.
	NeverExisted Removal = -1
	// NotRemoved means at least one path still supplies the member.
	NotRemoved Removal = math.MaxInt32
)

// Version returns the removal version when r is a concrete removal.
func (r Removal) Version() (model.Version, bool) {
	if r <= 0 || r == NotRemoved {
		return 0, false
	}
	return model.Version(r), true
}

func (r Removal) String() string {
	switch r {
	case NeverExisted:
		return "never-existed"
	case NotRemoved:
		return "not-removed"
	default:
		return "removed-in-" + strconv.Itoa(int(r))
	}
}

// MemberSince returns the first version in which the member is usable from
// c, or 0 if c neither declares nor inherits it. Constructors are not
// inherited.
func (c *Class) MemberSince(api *API, sig string) model.Version {
	best, _ := c.own(sig)
	if model.IsConstructor(sig) {
		return best
	}
	c.edges(func(e Edge) {
		a := api.Class(e.Name)
		if a == nil {
			return
		}
		v := a.MemberSince(api, sig)
		if v == 0 {
			return
		}
		if e.Since > v {
			v = e.Since
		}
		if best == 0 || v < best {
			best = v
		}
	})
	return best
}

// MemberDeprecatedIn returns the version the member became deprecated as
// seen from c, folded with the deprecation of c itself, or 0.
func (c *Class) MemberDeprecatedIn(api *API, sig string) model.Version {
	d := c.memberDeprecated(api, sig)
	switch {
	case d == 0:
		return c.info.Deprecated
	case c.info.Deprecated == 0 || d < c.info.Deprecated:
		return d
	default:
		return c.info.Deprecated
	}
}

// memberDeprecated takes the earliest of the own deprecation entry and every
// inherited deprecation, each raised to the version of the edge it travels
// through. A redeclaration without a deprecation entry does not hide an
// inherited one.
func (c *Class) memberDeprecated(api *API, sig string) model.Version {
	best := c.deprecated[sig]
	if model.IsConstructor(sig) {
		return best
	}
	c.edges(func(e Edge) {
		a := api.Class(e.Name)
		if a == nil {
			return
		}
		v := a.memberDeprecated(api, sig)
		if v == 0 {
			return
		}
		if e.Since > v {
			v = e.Since
		}
		if best == 0 || v < best {
			best = v
		}
	})
	return best
}

// ResolveRemoval returns the three-state removal of the member as seen from
// c. Each inherited result is capped by the removal of the edge it travels
// through; results from different paths are combined with max, so a member
// is removed only once every path removed it.
func (c *Class) ResolveRemoval(api *API, sig string) Removal {
	r := NeverExisted
	if v, ok := c.removed[sig]; ok {
		r = Removal(v)
	} else if c.Declares(sig) {
		return NotRemoved
	}
	if model.IsConstructor(sig) {
		return r
	}
	c.edges(func(e Edge) {
		a := api.Class(e.Name)
		if a == nil {
			return
		}
		s := a.ResolveRemoval(api, sig)
		if s == NeverExisted {
			return
		}
		if e.RemovedIn != 0 && Removal(e.RemovedIn) < s {
			s = Removal(e.RemovedIn)
		}
		if s > r {
			r = s
		}
	})
	return r
}

// MemberRemovedIn returns the version the member was removed in as seen
// from c, or 0. A member that is still reachable inherits the removal of
// the class itself.
func (c *Class) MemberRemovedIn(api *API, sig string) model.Version {
	r := c.ResolveRemoval(api, sig)
	switch r {
	case NotRemoved:
		return c.info.Removed
	case NeverExisted:
		return 0
	default:
		return model.Version(r)
	}
}

// MemberInfo resolves the full lifecycle of a member. ok is false when the
// member is not reachable from c.
func (c *Class) MemberInfo(api *API, sig string) (model.VersionInfo, bool) {
	since := c.MemberSince(api, sig)
	if since == 0 {
		return model.VersionInfo{}, false
	}
	return model.VersionInfo{
		Since:      since,
		Deprecated: c.MemberDeprecatedIn(api, sig),
		Removed:    c.MemberRemovedIn(api, sig),
	}, true
}

// AllMethods returns the signatures of every method reachable from c,
// sorted. Inherited constructors are only included on request.
func (c *Class) AllMethods(api *API, includeConstructors bool) []string {
	set := make(map[string]struct{})
	c.collect(api, make(map[int]bool), set, true, includeConstructors, true)
	return sortedSet(set)
}

// AllFields returns the names of every field reachable from c, sorted.
func (c *Class) AllFields(api *API) []string {
	set := make(map[string]struct{})
	c.collect(api, make(map[int]bool), set, false, false, true)
	return sortedSet(set)
}

func (c *Class) collect(api *API, visited map[int]bool, set map[string]struct{}, methods, ctors, self bool) {
	if visited[c.id] {
		return
	}
	visited[c.id] = true

	table := c.fields
	if methods {
		table = c.methods
	}
	for sig := range table {
		if !self && !ctors && model.IsConstructor(sig) {
			continue
		}
		set[sig] = struct{}{}
	}
	c.edges(func(e Edge) {
		if a := api.Class(e.Name); a != nil {
			a.collect(api, visited, set, methods, ctors, false)
		}
	})
}

// ExplicitMembers returns the reachable members whose lifecycle differs from
// the class's own, sorted by signature. Every other reachable member shares
// the class baseline and carries no extra information.
func (c *Class) ExplicitMembers(api *API) []model.Member {
	var out []model.Member
	for _, m := range c.MemberClosure(api) {
		if !c.IsBaseline(m.Info) {
			out = append(out, m)
		}
	}
	return out
}

// MemberClosure returns every field and non-constructor method visible on c
// with its resolved versions, sorted by signature. Constructors declared by c
// itself are included.
func (c *Class) MemberClosure(api *API) []model.Member {
	sigs := c.AllFields(api)
	sigs = append(sigs, c.AllMethods(api, false)...)
	sort.Strings(sigs)

	out := make([]model.Member, 0, len(sigs))
	for _, sig := range sigs {
		info, ok := c.MemberInfo(api, sig)
		if !ok {
			continue
		}
		out = append(out, model.Member{Signature: sig, Info: info})
	}
	return out
}

// IsBaseline reports whether info equals the class's own versions. Such
// members are omitted from the knowledge base because lookups of missing
// members answer with the class versions.
func (c *Class) IsBaseline(info model.VersionInfo) bool { return info == c.info }

// Ancestors returns every transitive superclass and interface of c that is
// part of the API, mapped to the first version in which c can be cast to it:
// the minimum over all paths of the latest edge along the path.
func (c *Class) Ancestors(api *API) map[string]model.Version {
	out := make(map[string]model.Version)
	c.ancestors(api, c.info.Since, out)
	return out
}

func (c *Class) ancestors(api *API, floor model.Version, out map[string]model.Version) {
	c.edges(func(e Edge) {
		a := api.Class(e.Name)
		if a == nil {
			return
		}
		v := floor
		if e.Since > v {
			v = e.Since
		}
		if prev, ok := out[e.Name]; ok && prev <= v {
			return
		}
		out[e.Name] = v
		a.ancestors(api, v, out)
	})
}

// AncestorSince returns the first version in which c can be cast to target.
// ok is false when target is not an ancestor of c.
func (c *Class) AncestorSince(api *API, target string) (model.Version, bool) {
	v, ok := c.Ancestors(api)[target]
	return v, ok
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

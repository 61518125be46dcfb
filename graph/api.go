package graph

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// API is the complete collection of classes, indexed by name and package.
// It is immutable once returned by Builder.Build.
type API struct {
	classes  []*Class
	byName   map[string]int
	packages map[string]*roaring.Bitmap
	pkgNames []string
}

// Class returns the class with the given internal name, or nil.
func (a *API) Class(name string) *Class {
	id, ok := a.byName[name]
	if !ok {
		return nil
	}
	return a.classes[id]
}

// ClassByID returns the class stored at the given arena index, or nil.
func (a *API) ClassByID(id int) *Class {
	if id < 0 || id >= len(a.classes) {
		return nil
	}
	return a.classes[id]
}

// Len returns the number of classes.
func (a *API) Len() int { return len(a.classes) }

// Classes returns all classes sorted by name.
func (a *API) Classes() []*Class {
	out := make([]*Class, len(a.classes))
	copy(out, a.classes)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Packages returns the names of all packages, sorted.
func (a *API) Packages() []string { return a.pkgNames }

// ContainsPackage reports whether at least one class lives in pkg.
func (a *API) ContainsPackage(pkg string) bool {
	_, ok := a.packages[pkg]
	return ok
}

// ClassesIn returns the classes of a package sorted by simple name.
func (a *API) ClassesIn(pkg string) []*Class {
	bm, ok := a.packages[pkg]
	if !ok {
		return nil
	}
	out := make([]*Class, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, a.classes[it.Next()])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// MemberCount returns the number of members declared across all classes.
func (a *API) MemberCount() int {
	n := 0
	for _, c := range a.classes {
		n += len(c.fields) + len(c.methods)
	}
	return n
}

func (a *API) index() {
	a.packages = make(map[string]*roaring.Bitmap)
	for _, c := range a.classes {
		pkg := c.Package()
		bm, ok := a.packages[pkg]
		if !ok {
			bm = roaring.New()
			a.packages[pkg] = bm
		}
		bm.Add(uint32(c.id))
	}
	a.pkgNames = make([]string, 0, len(a.packages))
	for pkg, bm := range a.packages {
		bm.RunOptimize()
		a.pkgNames = append(a.pkgNames, pkg)
	}
	sort.Strings(a.pkgNames)
}

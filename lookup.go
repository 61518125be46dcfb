package apilevel

import (
	"sync/atomic"

	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/internal/kb"
	"github.com/hupe1980/apilevel/model"
)

// None is returned by version queries for unknown classes and for
// lifecycle events that never happened.
const None = kb.None

// Lookup answers version queries about a platform API. Class names use the
// internal slash form ("java/lang/String"); method descriptors may carry a
// return type, which is ignored.
//
// A known class answers member queries for members it does not list with its
// own versions. Implementations are safe for concurrent use.
type Lookup interface {
	ClassVersion(owner string) int
	ClassDeprecatedIn(owner string) int
	ClassRemovedIn(owner string) int

	MethodVersion(owner, name, desc string) int
	MethodDeprecatedIn(owner, name, desc string) int
	MethodRemovedIn(owner, name, desc string) int

	FieldVersion(owner, name string) int
	FieldDeprecatedIn(owner, name string) int
	FieldRemovedIn(owner, name string) int

	// ValidCastVersion returns the first version in which source can be
	// assigned to dest.
	ValidCastVersion(source, dest string) int

	RemovedFields(owner string) []model.Member
	RemovedCalls(owner string) []model.Member
	// Members returns the members of owner whose versions differ from the
	// class's own, sorted by signature.
	Members(owner string) []model.Member

	ContainsClass(owner string) bool
	// IsValidPackage reports whether pkg, or the package part of a class
	// name, contains any class.
	IsValidPackage(pkg string) bool

	Close() error
}

var (
	_ Lookup = (*modelLookup)(nil)
	_ Lookup = binaryLookup{}
)

// validPackage accepts a package name or a fully qualified class name.
func validPackage(exact func(string) bool, pkg string) bool {
	if exact(pkg) {
		return true
	}
	if p, _ := model.SplitClassName(pkg); p != "" && p != pkg {
		return exact(p)
	}
	return false
}

type binaryLookup struct {
	*kb.Database
}

func (l binaryLookup) IsValidPackage(pkg string) bool {
	return validPackage(l.Database.IsValidPackage, pkg)
}

// modelLookup answers queries directly from the version graph with the same
// results a knowledge base written from that graph gives.
type modelLookup struct {
	api atomic.Pointer[graph.API]
}

// NewModelLookup returns a Lookup backed by api.
func NewModelLookup(api *graph.API) Lookup {
	l := &modelLookup{}
	l.api.Store(api)
	return l
}

func (l *modelLookup) class(owner string) (*graph.API, *graph.Class) {
	api := l.api.Load()
	if api == nil {
		return nil, nil
	}
	return api, api.Class(owner)
}

func (l *modelLookup) classInfo(owner string) (model.VersionInfo, bool) {
	_, c := l.class(owner)
	if c == nil {
		return model.VersionInfo{}, false
	}
	return c.Info(), true
}

func (l *modelLookup) member(owner, sig string) (model.VersionInfo, bool) {
	api, c := l.class(owner)
	if c == nil {
		return model.VersionInfo{}, false
	}
	if info, ok := c.MemberInfo(api, sig); ok {
		return info, true
	}
	return c.Info(), true
}

func (l *modelLookup) ClassVersion(owner string) int {
	return since(l.classInfo(owner))
}

func (l *modelLookup) ClassDeprecatedIn(owner string) int {
	return deprecated(l.classInfo(owner))
}

func (l *modelLookup) ClassRemovedIn(owner string) int {
	return removed(l.classInfo(owner))
}

func (l *modelLookup) MethodVersion(owner, name, desc string) int {
	return since(l.member(owner, name+model.ParameterList(desc)))
}

func (l *modelLookup) MethodDeprecatedIn(owner, name, desc string) int {
	return deprecated(l.member(owner, name+model.ParameterList(desc)))
}

func (l *modelLookup) MethodRemovedIn(owner, name, desc string) int {
	return removed(l.member(owner, name+model.ParameterList(desc)))
}

func (l *modelLookup) FieldVersion(owner, name string) int {
	return since(l.member(owner, name))
}

func (l *modelLookup) FieldDeprecatedIn(owner, name string) int {
	return deprecated(l.member(owner, name))
}

func (l *modelLookup) FieldRemovedIn(owner, name string) int {
	return removed(l.member(owner, name))
}

func (l *modelLookup) ValidCastVersion(source, dest string) int {
	api, s := l.class(source)
	if s == nil || api.Class(dest) == nil {
		return None
	}
	if v, ok := s.AncestorSince(api, dest); ok && v > s.Since() {
		return int(v)
	}
	return int(s.Since())
}

func (l *modelLookup) RemovedFields(owner string) []model.Member {
	return l.removed(owner, false)
}

func (l *modelLookup) RemovedCalls(owner string) []model.Member {
	return l.removed(owner, true)
}

func (l *modelLookup) removed(owner string, methods bool) []model.Member {
	var out []model.Member
	for _, m := range l.Members(owner) {
		if m.Info.Removed != 0 && m.IsMethod() == methods {
			out = append(out, m)
		}
	}
	return out
}

func (l *modelLookup) Members(owner string) []model.Member {
	api, c := l.class(owner)
	if c == nil {
		return nil
	}
	return c.ExplicitMembers(api)
}

func (l *modelLookup) ContainsClass(owner string) bool {
	_, c := l.class(owner)
	return c != nil
}

func (l *modelLookup) IsValidPackage(pkg string) bool {
	api := l.api.Load()
	return api != nil && validPackage(api.ContainsPackage, pkg)
}

// Close drops the model. Later queries answer None.
func (l *modelLookup) Close() error {
	l.api.Store(nil)
	return nil
}

func since(info model.VersionInfo, ok bool) int {
	if !ok {
		return None
	}
	return int(info.Since)
}

func deprecated(info model.VersionInfo, ok bool) int {
	if !ok || info.Deprecated == 0 {
		return None
	}
	return int(info.Deprecated)
}

func removed(info model.VersionInfo, ok bool) int {
	if !ok || info.Removed == 0 {
		return None
	}
	return int(info.Removed)
}

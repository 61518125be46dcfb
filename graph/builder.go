package graph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/apilevel/model"
)

// ErrInvalidAPI is returned by Builder.Build when the collected facts are
// inconsistent.
var ErrInvalidAPI = errors.New("graph: invalid api")

// Builder collects classes from a descriptor. A Builder and the
// ClassBuilders it hands out must not be used after Build.
type Builder struct {
	api *API
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{api: &API{byName: make(map[string]int)}}
}

// Class returns the builder for the named class, creating it with the given
// since version on first use. Later calls keep the original since version.
func (b *Builder) Class(name string, since model.Version) *ClassBuilder {
	if id, ok := b.api.byName[name]; ok {
		return &ClassBuilder{c: b.api.classes[id]}
	}
	c := newClass(len(b.api.classes), name, since)
	b.api.classes = append(b.api.classes, c)
	b.api.byName[name] = c.id
	return &ClassBuilder{c: c}
}

// Len returns the number of classes added so far.
func (b *Builder) Len() int { return len(b.api.classes) }

// Build validates the collected classes and returns the sealed API.
func (b *Builder) Build() (*API, error) {
	api := b.api
	var errs []error
	for _, c := range api.classes {
		if err := validateClass(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := detectCycle(api); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	api.index()
	return api, nil
}

func validateClass(c *Class) error {
	if c.name == "" {
		return fmt.Errorf("%w: class with empty name", ErrInvalidAPI)
	}
	if err := c.info.Validate(); err != nil {
		return fmt.Errorf("%w: class %s: %w", ErrInvalidAPI, c.name, err)
	}
	for _, e := range append(append([]Edge(nil), c.supers...), c.interfaces...) {
		if e.Since > model.MaxVersion || e.RemovedIn > model.MaxVersion {
			return fmt.Errorf("%w: class %s: edge to %s: %w", ErrInvalidAPI, c.name, e.Name, model.ErrVersionRange)
		}
	}
	for _, table := range []map[string]model.Version{c.fields, c.methods, c.deprecated, c.removed} {
		for sig, v := range table {
			if v > model.MaxVersion {
				return fmt.Errorf("%w: class %s: member %s: %w", ErrInvalidAPI, c.name, sig, model.ErrVersionRange)
			}
		}
	}
	return nil
}

// detectCycle rejects inheritance cycles, which would make resolution
// recurse forever.
func detectCycle(api *API) error {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(api.classes))

	var visit func(c *Class) error
	visit = func(c *Class) error {
		color[c.id] = grey
		var err error
		c.edges(func(e Edge) {
			if err != nil {
				return
			}
			a := api.Class(e.Name)
			if a == nil {
				return
			}
			switch color[a.id] {
			case grey:
				err = fmt.Errorf("%w: inheritance cycle through %s and %s", ErrInvalidAPI, c.name, a.name)
			case white:
				err = visit(a)
			}
		})
		color[c.id] = black
		return err
	}

	for _, c := range api.classes {
		if color[c.id] == white {
			if err := visit(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClassBuilder adds facts to one class.
type ClassBuilder struct {
	c *Class
}

// Deprecated marks the class deprecated in version v.
func (cb *ClassBuilder) Deprecated(v model.Version) *ClassBuilder {
	cb.c.info.Deprecated = v
	return cb
}

// Removed marks the class removed in version v.
func (cb *ClassBuilder) Removed(v model.Version) *ClassBuilder {
	cb.c.info.Removed = v
	return cb
}

// Extends adds a superclass edge that exists since version since.
func (cb *ClassBuilder) Extends(name string, since model.Version) *ClassBuilder {
	return cb.ExtendsEdge(Edge{Name: name, Since: since})
}

// ExtendsEdge adds a superclass edge. Edge versions older than the class are
// raised to the class's since version.
func (cb *ClassBuilder) ExtendsEdge(e Edge) *ClassBuilder {
	e.Since = cb.c.clamp(e.Since)
	cb.c.supers = addEdge(cb.c.supers, e)
	return cb
}

// Implements adds an interface edge that exists since version since.
func (cb *ClassBuilder) Implements(name string, since model.Version) *ClassBuilder {
	return cb.ImplementsEdge(Edge{Name: name, Since: since})
}

// ImplementsEdge adds an interface edge. Edge versions older than the class
// are raised to the class's since version.
func (cb *ClassBuilder) ImplementsEdge(e Edge) *ClassBuilder {
	e.Since = cb.c.clamp(e.Since)
	cb.c.interfaces = addEdge(cb.c.interfaces, e)
	return cb
}

// Field declares a field introduced in version since.
func (cb *ClassBuilder) Field(name string, since model.Version) *ClassBuilder {
	cb.c.addMember(name, since)
	return cb
}

// Method declares a method. The return type of sig is dropped, so
// signatures differing only by return type collapse onto one entry that
// keeps the earliest version.
func (cb *ClassBuilder) Method(sig string, since model.Version) *ClassBuilder {
	cb.c.addMember(sig, since)
	return cb
}

// Member declares a field or method together with its full lifecycle.
// A zero Since inherits the class's since version.
func (cb *ClassBuilder) Member(sig string, info model.VersionInfo) *ClassBuilder {
	cb.c.addMember(sig, info.Since)
	cb.c.setMemberVersion(&cb.c.deprecated, sig, info.Deprecated)
	cb.c.setMemberVersion(&cb.c.removed, sig, info.Removed)
	return cb
}

// DeprecateMember records that a declared member was deprecated in version v.
func (cb *ClassBuilder) DeprecateMember(sig string, v model.Version) *ClassBuilder {
	cb.c.setMemberVersion(&cb.c.deprecated, sig, v)
	return cb
}

// RemoveMember records that a declared member was removed in version v.
func (cb *ClassBuilder) RemoveMember(sig string, v model.Version) *ClassBuilder {
	cb.c.setMemberVersion(&cb.c.removed, sig, v)
	return cb
}

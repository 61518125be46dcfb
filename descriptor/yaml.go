package descriptor

import (
	"fmt"
	"io"

	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/model"
	"gopkg.in/yaml.v3"
)

// Document is the YAML and JSON descriptor shape.
type Document struct {
	Min     int             `yaml:"min,omitempty" json:"min,omitempty"`
	Classes []ClassDocument `yaml:"classes" json:"classes"`
}

// ClassDocument describes one class.
type ClassDocument struct {
	Name       string           `yaml:"name" json:"name"`
	Since      int              `yaml:"since,omitempty" json:"since,omitempty"`
	Deprecated int              `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Removed    int              `yaml:"removed,omitempty" json:"removed,omitempty"`
	Extends    []EdgeDocument   `yaml:"extends,omitempty" json:"extends,omitempty"`
	Implements []EdgeDocument   `yaml:"implements,omitempty" json:"implements,omitempty"`
	Methods    []MemberDocument `yaml:"methods,omitempty" json:"methods,omitempty"`
	Fields     []MemberDocument `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// EdgeDocument describes a superclass or interface edge.
type EdgeDocument struct {
	Name    string `yaml:"name" json:"name"`
	Since   int    `yaml:"since,omitempty" json:"since,omitempty"`
	Removed int    `yaml:"removed,omitempty" json:"removed,omitempty"`
}

// MemberDocument describes a method (name plus descriptor) or a field.
type MemberDocument struct {
	Name       string `yaml:"name" json:"name"`
	Since      int    `yaml:"since,omitempty" json:"since,omitempty"`
	Deprecated int    `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Removed    int    `yaml:"removed,omitempty" json:"removed,omitempty"`
}

// ParseYAML decodes a YAML descriptor.
func ParseYAML(r io.Reader) (*graph.API, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return doc.Build()
}

// ParseJSON decodes a JSON descriptor.
func ParseJSON(r io.Reader) (*graph.API, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := codec.Default.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return doc.Build()
}

// Build converts the document into a version graph.
func (d *Document) Build() (*graph.API, error) {
	floor, err := checkVersion(d.Min)
	if err != nil {
		return nil, err
	}
	if floor == 0 {
		floor = 1
	}

	b := graph.NewBuilder()
	for _, c := range d.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: class without name", ErrMalformed)
		}
		info, err := versions(c.Since, c.Deprecated, c.Removed)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		if info.Since == 0 {
			info.Since = floor
		}

		cb := b.Class(c.Name, info.Since)
		if info.Deprecated != 0 {
			cb.Deprecated(info.Deprecated)
		}
		if info.Removed != 0 {
			cb.Removed(info.Removed)
		}

		for _, e := range c.Extends {
			edge, err := e.edge()
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", c.Name, err)
			}
			cb.ExtendsEdge(edge)
		}
		for _, e := range c.Implements {
			edge, err := e.edge()
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", c.Name, err)
			}
			cb.ImplementsEdge(edge)
		}
		for _, m := range append(append([]MemberDocument(nil), c.Methods...), c.Fields...) {
			if m.Name == "" {
				return nil, fmt.Errorf("%w: class %s: member without name", ErrMalformed, c.Name)
			}
			mi, err := versions(m.Since, m.Deprecated, m.Removed)
			if err != nil {
				return nil, fmt.Errorf("class %s: member %s: %w", c.Name, m.Name, err)
			}
			cb.Member(m.Name, mi)
		}
	}
	return b.Build()
}

func (e EdgeDocument) edge() (graph.Edge, error) {
	if e.Name == "" {
		return graph.Edge{}, fmt.Errorf("%w: edge without name", ErrMalformed)
	}
	since, err := checkVersion(e.Since)
	if err != nil {
		return graph.Edge{}, err
	}
	removed, err := checkVersion(e.Removed)
	if err != nil {
		return graph.Edge{}, err
	}
	return graph.Edge{Name: e.Name, Since: since, RemovedIn: removed}, nil
}

func versions(since, deprecated, removed int) (model.VersionInfo, error) {
	var info model.VersionInfo
	var err error
	if info.Since, err = checkVersion(since); err != nil {
		return info, err
	}
	if info.Deprecated, err = checkVersion(deprecated); err != nil {
		return info, err
	}
	if info.Removed, err = checkVersion(removed); err != nil {
		return info, err
	}
	return info, nil
}

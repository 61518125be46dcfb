package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/model"
)

// ParseXML decodes an api-versions XML document. The document is streamed,
// so memory use is bounded by the resulting graph rather than the input.
//
// A class without a since attribute uses the api element's min attribute,
// or 1. Members and edges without a since attribute use the class's.
func ParseXML(r io.Reader) (*graph.API, error) {
	dec := xml.NewDecoder(r)
	b := graph.NewBuilder()

	floor := model.Version(1)
	var cb *graph.ClassBuilder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			attrs, err := readAttrs(el)
			if err != nil {
				line, _ := dec.InputPos()
				return nil, fmt.Errorf("line %d: %w", line, err)
			}

			switch el.Name.Local {
			case "api":
				if attrs.min != 0 {
					floor = attrs.min
				}
			case "class":
				if attrs.name == "" {
					line, _ := dec.InputPos()
					return nil, fmt.Errorf("%w: line %d: class without name", ErrMalformed, line)
				}
				since := attrs.since
				if since == 0 {
					since = floor
				}
				cb = b.Class(attrs.name, since)
				if attrs.deprecated != 0 {
					cb.Deprecated(attrs.deprecated)
				}
				if attrs.removed != 0 {
					cb.Removed(attrs.removed)
				}
			case "extends", "implements", "method", "field":
				if cb == nil {
					line, _ := dec.InputPos()
					return nil, fmt.Errorf("%w: line %d: <%s> outside <class>", ErrMalformed, line, el.Name.Local)
				}
				if attrs.name == "" {
					line, _ := dec.InputPos()
					return nil, fmt.Errorf("%w: line %d: <%s> without name", ErrMalformed, line, el.Name.Local)
				}
				addChild(cb, el.Name.Local, attrs)
			}
		case xml.EndElement:
			if el.Name.Local == "class" {
				cb = nil
			}
		}
	}

	return b.Build()
}

type attrSet struct {
	name       string
	since      model.Version
	deprecated model.Version
	removed    model.Version
	min        model.Version
}

func readAttrs(el xml.StartElement) (attrSet, error) {
	var a attrSet
	for _, attr := range el.Attr {
		var err error
		switch attr.Name.Local {
		case "name":
			a.name = attr.Value
		case "since":
			a.since, err = parseVersion(attr.Value)
		case "deprecated":
			a.deprecated, err = parseVersion(attr.Value)
		case "removed":
			a.removed, err = parseVersion(attr.Value)
		case "min":
			a.min, err = parseVersion(attr.Value)
		}
		if err != nil {
			return a, fmt.Errorf("<%s %s>: %w", el.Name.Local, attr.Name.Local, err)
		}
	}
	return a, nil
}

func addChild(cb *graph.ClassBuilder, kind string, a attrSet) {
	switch kind {
	case "extends":
		cb.ExtendsEdge(graph.Edge{Name: a.name, Since: a.since, RemovedIn: a.removed})
	case "implements":
		cb.ImplementsEdge(graph.Edge{Name: a.name, Since: a.since, RemovedIn: a.removed})
	default:
		cb.Member(a.name, model.VersionInfo{Since: a.since, Deprecated: a.deprecated, Removed: a.removed})
	}
}

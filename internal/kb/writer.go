package kb

import (
	"encoding/binary"
	"io"
	"math"
	"sort"

	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/model"
)

// Stats summarizes a knowledge base.
type Stats struct {
	Packages int `json:"packages"`
	Classes  int `json:"classes"`
	Members  int `json:"members"`
	Pruned   int `json:"pruned"`
	Edges    int `json:"edges"`
	Bytes    int `json:"bytes"`
}

type packagePlan struct {
	name       string
	pos        int
	classStart int
	classes    []*classPlan
}

type classPlan struct {
	class       *graph.Class
	simple      string
	pos         int
	memberStart int
	members     []model.Member
	edges       []edgePlan
}

type edgePlan struct {
	target uint32
	since  model.Version
}

// Encode serializes api into a knowledge base buffer. Encoding the same API
// twice yields identical bytes.
func Encode(api *graph.API) ([]byte, Stats, error) {
	var stats Stats

	pkgs, total, err := plan(api, &stats)
	if err != nil {
		return nil, stats, err
	}

	buf := make([]byte, 0, headerSize+4*total+16*total)
	buf = append(buf, Magic...)
	buf = append(buf, FormatVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(total))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(pkgs)))

	indexStart := len(buf)
	buf = append(buf, make([]byte, 4*total)...)
	index := make([]uint32, total)

	for _, p := range pkgs {
		for _, cp := range p.classes {
			for i, m := range cp.members {
				index[cp.memberStart+i] = uint32(len(buf))
				buf = append(buf, m.Signature...)
				buf = append(buf, 0)
				buf = model.AppendVersionInfo(buf, m.Info)
			}
		}
	}

	for _, p := range pkgs {
		for _, cp := range p.classes {
			index[cp.pos] = uint32(len(buf))
			buf = append(buf, byte(len(cp.simple)+2))
			buf = append(buf, cp.simple...)
			buf = append(buf, 0)
			buf = appendUint24(buf, uint32(cp.memberStart))
			buf = binary.BigEndian.AppendUint16(buf, uint16(len(cp.members)))
			buf = model.AppendVersionInfo(buf, cp.class.Info())
			buf = append(buf, byte(len(cp.edges)))
			for _, e := range cp.edges {
				buf = appendUint24(buf, e.target)
				buf = append(buf, byte(e.since))
			}
		}
	}

	for _, p := range pkgs {
		index[p.pos] = uint32(len(buf))
		buf = append(buf, p.name...)
		buf = append(buf, 0)
		buf = appendUint24(buf, uint32(p.classStart))
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(p.classes)))
	}

	if uint64(len(buf)) > math.MaxUint32 {
		return nil, stats, &BuildError{Class: "*", Reason: "database exceeds 4 GiB"}
	}
	for i, off := range index {
		binary.BigEndian.PutUint32(buf[indexStart+4*i:], off)
	}

	stats.Bytes = len(buf)
	return buf, stats, nil
}

// plan assigns index positions: packages first, then classes grouped by
// package, then members grouped by class.
func plan(api *graph.API, stats *Stats) ([]*packagePlan, int, error) {
	names := api.Packages()
	pkgs := make([]*packagePlan, len(names))
	classPos := make(map[string]uint32, api.Len())

	pos := len(names)
	for i, name := range names {
		if !model.IsASCII(name) {
			return nil, 0, &BuildError{Class: name, Reason: "package name is not ASCII"}
		}
		p := &packagePlan{name: name, pos: i, classStart: pos}
		for _, c := range api.ClassesIn(name) {
			simple := c.SimpleName()
			if !model.IsASCII(simple) {
				return nil, 0, &BuildError{Class: c.Name(), Reason: "class name is not ASCII"}
			}
			if len(simple)+2 > maxShortcut {
				return nil, 0, &BuildError{Class: c.Name(), Reason: "class name too long"}
			}
			if err := c.Info().Validate(); err != nil {
				return nil, 0, &BuildError{Class: c.Name(), Reason: "invalid class version", cause: err}
			}
			p.classes = append(p.classes, &classPlan{class: c, simple: simple, pos: pos})
			classPos[c.Name()] = uint32(pos)
			pos++
		}
		if len(p.classes) > maxRangeCount {
			return nil, 0, &BuildError{Class: name, Reason: "too many classes in package"}
		}
		pkgs[i] = p
	}
	stats.Packages = len(pkgs)
	stats.Classes = pos - len(pkgs)

	for _, p := range pkgs {
		for _, cp := range p.classes {
			if err := planMembers(api, cp, stats); err != nil {
				return nil, 0, err
			}
			cp.memberStart = pos
			pos += len(cp.members)
			if err := planEdges(api, cp, classPos, stats); err != nil {
				return nil, 0, err
			}
		}
	}
	if pos > maxIndex {
		return nil, 0, &BuildError{Class: "*", Reason: "too many index entries"}
	}
	return pkgs, pos, nil
}

func planMembers(api *graph.API, cp *classPlan, stats *Stats) error {
	c := cp.class
	for _, m := range c.MemberClosure(api) {
		if c.IsBaseline(m.Info) {
			stats.Pruned++
			continue
		}
		if !model.IsASCII(m.Signature) {
			return &BuildError{Class: c.Name(), Member: m.Signature, Reason: "signature is not ASCII"}
		}
		if err := m.Info.Validate(); err != nil {
			return &BuildError{Class: c.Name(), Member: m.Signature, Reason: "invalid member version", cause: err}
		}
		cp.members = append(cp.members, m)
	}
	if len(cp.members) > maxRangeCount {
		return &BuildError{Class: c.Name(), Reason: "too many members"}
	}
	stats.Members += len(cp.members)
	return nil
}

func planEdges(api *graph.API, cp *classPlan, classPos map[string]uint32, stats *Stats) error {
	c := cp.class
	ancestors := c.Ancestors(api)
	names := make([]string, 0, len(ancestors))
	for name, v := range ancestors {
		// Edges present since the class's birth are implied by its since version.
		if v > c.Since() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		target, ok := classPos[name]
		if !ok {
			return &BuildError{Class: c.Name(), Member: name, Reason: "edge target has no class index"}
		}
		v := ancestors[name]
		if v > model.MaxVersion {
			return &BuildError{Class: c.Name(), Member: name, Reason: "invalid edge version", cause: model.ErrVersionRange}
		}
		cp.edges = append(cp.edges, edgePlan{target: target, since: v})
	}
	if len(cp.edges) > maxEdges {
		return &BuildError{Class: c.Name(), Reason: "too many edges"}
	}
	stats.Edges += len(cp.edges)
	return nil
}

// Write encodes api and writes the buffer to w.
func Write(w io.Writer, api *graph.API) (Stats, error) {
	buf, stats, err := Encode(api)
	if err != nil {
		return stats, err
	}
	if _, err := w.Write(buf); err != nil {
		return stats, err
	}
	return stats, nil
}

// WriteFile encodes api and atomically replaces the file at path. Nothing is
// published when encoding or writing fails.
func WriteFile(fsys fs.FileSystem, path string, api *graph.API) (Stats, error) {
	buf, stats, err := Encode(api)
	if err != nil {
		return stats, err
	}
	if fsys == nil {
		fsys = fs.Default
	}
	if err := fs.WriteFileAtomic(fsys, path, buf, 0o644); err != nil {
		return stats, err
	}
	return stats, nil
}

package kb

import (
	"bytes"
	"encoding/binary"

	"github.com/hupe1980/apilevel/model"
)

// cursor reads big-endian fields from a buffer. The first out-of-bounds read
// sets err and every later read returns zero values.
type cursor struct {
	buf []byte
	pos int
	err bool
}

func (c *cursor) take(n int) []byte {
	if c.err || n > len(c.buf)-c.pos {
		c.err = true
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) uint8() byte {
	if b := c.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *cursor) uint16() uint16 {
	if b := c.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (c *cursor) uint24() uint32 {
	if b := c.take(3); b != nil {
		return uint24(b)
	}
	return 0
}

func (c *cursor) cstring() []byte {
	if c.err || c.pos > len(c.buf) {
		c.err = true
		return nil
	}
	i := bytes.IndexByte(c.buf[c.pos:], 0)
	if i < 0 {
		c.err = true
		return nil
	}
	s := c.buf[c.pos : c.pos+i]
	c.pos += i + 1
	return s
}

func (c *cursor) versionInfo() model.VersionInfo {
	if c.err {
		return model.VersionInfo{}
	}
	v, n, err := model.DecodeVersionInfo(c.buf[c.pos:])
	if err != nil {
		c.err = true
		return model.VersionInfo{}
	}
	c.pos += n
	return v
}

// parse validates data and returns the table describing it. Every offset,
// range and terminator a query may touch is checked here so that queries can
// slice the buffer without bounds checks of their own.
func parse(data []byte) (*table, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	if len(data) < headerSize {
		return nil, corruptf("truncated header")
	}
	if v := data[len(Magic)]; v != FormatVersion {
		return nil, ErrFormatVersion
	}

	total := uint64(binary.BigEndian.Uint32(data[len(Magic)+1:]))
	packages := uint64(binary.BigEndian.Uint32(data[len(Magic)+5:]))
	if packages > total {
		return nil, corruptf("%d packages exceed %d entries", packages, total)
	}
	indexEnd := uint64(headerSize) + 4*total
	if indexEnd > uint64(len(data)) {
		return nil, corruptf("index of %d entries exceeds buffer", total)
	}

	t := &table{
		data:     data,
		index:    make([]uint32, total),
		packages: int(packages),
	}
	for i := range t.index {
		off := binary.BigEndian.Uint32(data[headerSize+4*i:])
		if uint64(off) < indexEnd || uint64(off) >= uint64(len(data)) {
			return nil, corruptf("entry %d has offset %d outside data area", i, off)
		}
		t.index[i] = off
	}

	type span struct{ start, count int }

	pkgs := make([]span, t.packages)
	next := t.packages
	var prev []byte
	for i := range pkgs {
		c := t.cursor(i)
		name := c.cstring()
		start := int(c.uint24())
		count := int(c.uint16())
		if c.err {
			return nil, corruptf("truncated package entry %d", i)
		}
		if i > 0 && bytes.Compare(prev, name) >= 0 {
			return nil, corruptf("package %q out of order", name)
		}
		if start != next || start+count > len(t.index) {
			return nil, corruptf("package %q has invalid class range", name)
		}
		prev = name
		pkgs[i] = span{start, count}
		next = start + count
	}
	classEnd := next
	t.classes = classEnd - t.packages

	memberNext := classEnd
	for _, p := range pkgs {
		var prevClass []byte
		for i := p.start; i < p.start+p.count; i++ {
			c := t.cursor(i)
			shortcut := int(c.uint8())
			name := c.cstring()
			start := int(c.uint24())
			count := int(c.uint16())
			info := c.versionInfo()
			edges := int(c.uint8())
			for e := 0; e < edges; e++ {
				target := int(c.uint24())
				v := c.uint8()
				if !c.err && (target < t.packages || target >= classEnd || v == 0 || v > byte(model.MaxVersion)) {
					return nil, corruptf("class %q has invalid edge", name)
				}
			}
			if c.err {
				return nil, corruptf("truncated class entry %d", i)
			}
			if shortcut != len(name)+2 {
				return nil, corruptf("class %q has invalid shortcut", name)
			}
			if info.Since == 0 {
				return nil, corruptf("class %q has no since version", name)
			}
			if i > p.start && bytes.Compare(prevClass, name) >= 0 {
				return nil, corruptf("class %q out of order", name)
			}
			if start != memberNext || start+count > len(t.index) {
				return nil, corruptf("class %q has invalid member range", name)
			}
			prevClass = name
			memberNext = start + count

			var prevMember []byte
			for m := start; m < start+count; m++ {
				mc := t.cursor(m)
				sig := mc.cstring()
				minfo := mc.versionInfo()
				if mc.err {
					return nil, corruptf("truncated member entry %d", m)
				}
				if minfo.Since == 0 {
					return nil, corruptf("member %q has no since version", sig)
				}
				if m > start && bytes.Compare(prevMember, sig) >= 0 {
					return nil, corruptf("member %q out of order", sig)
				}
				prevMember = sig
			}
		}
	}
	if memberNext != len(t.index) {
		return nil, corruptf("%d index entries are not reachable", len(t.index)-memberNext)
	}
	return t, nil
}

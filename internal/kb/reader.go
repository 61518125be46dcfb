package kb

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/apilevel/model"
)

// None is returned by queries when the answer is unknown, or when the
// queried entity is not deprecated or not removed.
const None = -1

// table is a validated view over a knowledge base buffer.
type table struct {
	data     []byte
	index    []uint32
	packages int
	classes  int
	closer   io.Closer
}

func (t *table) entry(i int) []byte { return t.data[t.index[i]:] }

func (t *table) cursor(i int) *cursor {
	return &cursor{buf: t.data, pos: int(t.index[i])}
}

// Database answers lifecycle queries from a knowledge base buffer.
//
// A Database is either unloaded or loaded. Queries on an unloaded Database
// return None (or false and nil). Load and Close are safe to call
// concurrently with queries: every query holds a read lock while it touches
// the buffer, so Close releases it only after in-flight queries returned.
type Database struct {
	mu sync.RWMutex
	t  atomic.Pointer[table]
}

// acquire read-locks the active buffer. The caller must call db.mu.RUnlock
// once it no longer touches the returned table, even when it is nil.
func (db *Database) acquire() *table {
	db.mu.RLock()
	return db.t.Load()
}

// Open validates data and returns a loaded Database.
func Open(data []byte) (*Database, error) {
	db := &Database{}
	if err := db.Load(data, nil); err != nil {
		return nil, err
	}
	return db, nil
}

// Load validates data and makes it the active buffer. closer, if non-nil,
// is closed when the Database is closed. Loading an already loaded Database
// is a no-op that returns nil; on failure the Database stays unloaded.
func (db *Database) Load(data []byte, closer io.Closer) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.t.Load() != nil {
		return nil
	}
	t, err := parse(data)
	if err != nil {
		return err
	}
	t.closer = closer
	db.t.Store(t)
	return nil
}

// Loaded reports whether a buffer is active.
func (db *Database) Loaded() bool { return db.t.Load() != nil }

// Close unloads the Database and releases the buffer.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t := db.t.Swap(nil)
	if t == nil || t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// Size returns the size in bytes of the active buffer.
func (db *Database) Size() int {
	if t := db.t.Load(); t != nil {
		return len(t.data)
	}
	return 0
}

// Counts returns the number of packages, classes and member entries.
func (db *Database) Counts() (packages, classes, members int) {
	t := db.t.Load()
	if t == nil {
		return 0, 0, 0
	}
	return t.packages, t.classes, len(t.index) - t.packages - t.classes
}

// IsValidPackage reports whether any class lives in pkg.
func (db *Database) IsValidPackage(pkg string) bool {
	t := db.acquire()
	defer db.mu.RUnlock()
	return t != nil && t.findPackage(pkg) >= 0
}

// ContainsClass reports whether owner is known.
func (db *Database) ContainsClass(owner string) bool {
	t := db.acquire()
	defer db.mu.RUnlock()
	return t != nil && t.findClass(owner) >= 0
}

// ClassVersion returns the version owner was introduced in.
func (db *Database) ClassVersion(owner string) int {
	info, ok := db.class(owner)
	return since(info, ok)
}

// ClassDeprecatedIn returns the version owner was deprecated in.
func (db *Database) ClassDeprecatedIn(owner string) int {
	info, ok := db.class(owner)
	return deprecated(info, ok)
}

// ClassRemovedIn returns the version owner was removed in.
func (db *Database) ClassRemovedIn(owner string) int {
	info, ok := db.class(owner)
	return removed(info, ok)
}

// MethodVersion returns the version the method was introduced in. desc may
// carry a return type; only the parameter list is significant.
func (db *Database) MethodVersion(owner, name, desc string) int {
	info, ok := db.member(owner, name, model.ParameterList(desc))
	return since(info, ok)
}

// MethodDeprecatedIn returns the version the method was deprecated in.
func (db *Database) MethodDeprecatedIn(owner, name, desc string) int {
	info, ok := db.member(owner, name, model.ParameterList(desc))
	return deprecated(info, ok)
}

// MethodRemovedIn returns the version the method was removed in.
func (db *Database) MethodRemovedIn(owner, name, desc string) int {
	info, ok := db.member(owner, name, model.ParameterList(desc))
	return removed(info, ok)
}

// FieldVersion returns the version the field was introduced in.
func (db *Database) FieldVersion(owner, name string) int {
	info, ok := db.member(owner, name, "")
	return since(info, ok)
}

// FieldDeprecatedIn returns the version the field was deprecated in.
func (db *Database) FieldDeprecatedIn(owner, name string) int {
	info, ok := db.member(owner, name, "")
	return deprecated(info, ok)
}

// FieldRemovedIn returns the version the field was removed in.
func (db *Database) FieldRemovedIn(owner, name string) int {
	info, ok := db.member(owner, name, "")
	return removed(info, ok)
}

// ValidCastVersion returns the first version in which a value of type source
// may be assigned to dest. Without a stored edge the answer is the version
// source was introduced in.
func (db *Database) ValidCastVersion(source, dest string) int {
	t := db.acquire()
	defer db.mu.RUnlock()

	if t == nil {
		return None
	}
	s, d := t.findClass(source), t.findClass(dest)
	if s < 0 || d < 0 {
		return None
	}
	info, edges := t.classHeader(s)
	for i := 0; i < int(edges[0]); i++ {
		e := edges[1+4*i:]
		if int(uint24(e)) == d {
			return int(e[3])
		}
	}
	return int(info.Since)
}

// RemovedFields returns the stored fields of owner that carry a removal
// version, sorted by name.
func (db *Database) RemovedFields(owner string) []model.Member {
	return db.removedMembers(owner, false)
}

// RemovedCalls returns the stored methods of owner that carry a removal
// version, sorted by signature.
func (db *Database) RemovedCalls(owner string) []model.Member {
	return db.removedMembers(owner, true)
}

func (db *Database) removedMembers(owner string, methods bool) []model.Member {
	t := db.acquire()
	defer db.mu.RUnlock()

	if t == nil {
		return nil
	}
	c := t.findClass(owner)
	if c < 0 {
		return nil
	}
	start, count := t.memberRange(c)

	var out []model.Member
	for i := start; i < start+count; i++ {
		sig, info := t.memberEntry(i)
		if info.Removed == 0 || model.IsMethodSignature(sig) != methods {
			continue
		}
		out = append(out, model.Member{Signature: sig, Info: info})
	}
	return out
}

// Members returns every stored member of owner.
func (db *Database) Members(owner string) []model.Member {
	t := db.acquire()
	defer db.mu.RUnlock()

	if t == nil {
		return nil
	}
	c := t.findClass(owner)
	if c < 0 {
		return nil
	}
	start, count := t.memberRange(c)
	var out []model.Member
	for i := start; i < start+count; i++ {
		sig, info := t.memberEntry(i)
		out = append(out, model.Member{Signature: sig, Info: info})
	}
	return out
}

func (db *Database) class(owner string) (model.VersionInfo, bool) {
	t := db.acquire()
	defer db.mu.RUnlock()

	if t == nil {
		return model.VersionInfo{}, false
	}
	c := t.findClass(owner)
	if c < 0 {
		return model.VersionInfo{}, false
	}
	info, _ := t.classHeader(c)
	return info, true
}

// member resolves a stored member of owner. Members that are not stored share
// the class's versions.
func (db *Database) member(owner, name, params string) (model.VersionInfo, bool) {
	t := db.acquire()
	defer db.mu.RUnlock()

	if t == nil {
		return model.VersionInfo{}, false
	}
	c := t.findClass(owner)
	if c < 0 {
		return model.VersionInfo{}, false
	}
	start, count := t.memberRange(c)
	m := t.search(start, start+count, func(entry []byte) int {
		return compareKey(entry, name, params)
	})
	if m >= 0 {
		_, info := t.memberEntry(m)
		return info, true
	}
	info, _ := t.classHeader(c)
	return info, true
}

func (t *table) findPackage(pkg string) int {
	return t.search(0, t.packages, func(entry []byte) int {
		return compareKey(entry, pkg, "")
	})
}

func (t *table) findClass(owner string) int {
	pkg, simple := model.SplitClassName(owner)
	p := t.findPackage(pkg)
	if p < 0 {
		return -1
	}
	start, count := t.classRange(p)
	return t.search(start, start+count, func(entry []byte) int {
		return compareKey(entry[1:], simple, "")
	})
}

func (t *table) classRange(p int) (start, count int) {
	e := t.entry(p)
	e = e[len(cstring(e))+1:]
	return int(uint24(e)), int(binary.BigEndian.Uint16(e[3:]))
}

// classFixed returns the bytes following the class name: member start,
// member count, version info and edges. The shortcut byte skips the name.
func (t *table) classFixed(c int) []byte {
	e := t.entry(c)
	return e[e[0]:]
}

func (t *table) memberRange(c int) (start, count int) {
	e := t.classFixed(c)
	return int(uint24(e)), int(binary.BigEndian.Uint16(e[3:]))
}

// classHeader decodes the class versions and returns them together with the
// edge list, which starts with its count byte.
func (t *table) classHeader(c int) (model.VersionInfo, []byte) {
	e := t.classFixed(c)[5:]
	info, n, _ := model.DecodeVersionInfo(e)
	return info, e[n:]
}

func (t *table) memberEntry(i int) (string, model.VersionInfo) {
	e := t.entry(i)
	sig := cstring(e)
	info, _, _ := model.DecodeVersionInfo(e[len(sig)+1:])
	return string(sig), info
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

// Package kb implements the binary knowledge base: a single flat buffer
// holding every package, class and member of an API together with their
// lifecycles, and a query engine answering lookups with nested binary
// searches directly on the raw bytes.
//
// # File Layout
//
// All multi-byte integers are big-endian.
//
//	magic       "Platform API version database\x00"
//	version     u8
//	entries     u32   total number of index entries
//	packages    u32   number of package entries
//	index       u32 * entries, offsets of packages, then classes, then members
//	members     name\0 version-info
//	classes     u8 shortcut, name\0, u24 member start, u16 member count,
//	            version-info, u8 edge count, (u24 class index, u8 version) * count
//	packages    name\0, u24 class start, u16 class count
//
// Each index range is sorted by its key (package name, simple class name,
// member signature). Member and class entries are written grouped by their
// owner so that searches within one class touch neighboring bytes.
package kb

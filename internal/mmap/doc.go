// Package mmap maps knowledge base files read-only into memory so that
// queries binary search the file contents without copying them onto the heap.
//
//	m, err := mmap.Open("api-versions.kb")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom)
//	data := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Close is idempotent. Callers must stop reading Bytes() before closing.
package mmap

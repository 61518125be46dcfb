// Package fs provides the file system seam used to publish and load
// knowledge base files.
//
//   - [LocalFS]: production implementation backed by package os
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename errors
//
// [WriteFileAtomic] is the only way files are published: the content is
// written to a temporary sibling, synced and renamed into place, so a reader
// never observes a partially written database.
//
// The package does not take context.Context parameters. Local file operations
// are short and not interruptible at the syscall level; remote transfers go
// through package blobstore instead.
package fs

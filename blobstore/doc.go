// Package blobstore provides storage for distributing prebuilt knowledge
// bases.
//
// A build host publishes databases with Put; clients without a local copy
// download them through ReadAll before memory mapping them from their cache
// directory. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, reads are memory mapped
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and the S3 transfer manager
//   - minio.Store: MinIO and other S3-compatible services
package blobstore

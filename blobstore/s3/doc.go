// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("apilevel/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	db, err := apilevel.Open(ctx,
//	    apilevel.WithCacheDir(dir),
//	    apilevel.WithRemote(store, "android-34.kb.zst"),
//	)
//
// Uploads go through the S3 transfer manager, which switches to multipart
// uploads for large databases. Reads use ranged GetObject requests.
package s3

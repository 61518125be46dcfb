// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible services (Ceph, Garage,
// SeaweedFS), which suits air-gapped build farms that mirror prebuilt
// knowledge bases.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "platform", "apilevel/")
//	db, err := apilevel.Open(ctx, apilevel.WithCacheDir(dir), apilevel.WithRemote(store, "android-34.kb"))
package minio

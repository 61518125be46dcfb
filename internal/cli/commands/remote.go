package commands

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/apilevel/blobstore"
	miniostore "github.com/hupe1980/apilevel/blobstore/minio"
	s3store "github.com/hupe1980/apilevel/blobstore/s3"
	"github.com/hupe1980/apilevel/internal/cli/config"
)

// newStore connects to the configured blob store.
func newStore(ctx context.Context, rc config.RemoteConfig) (blobstore.BlobStore, error) {
	switch rc.Kind {
	case "local":
		return blobstore.NewLocalStore(rc.Path), nil
	case "s3":
		var optFns []func(*s3store.Options)
		if rc.Prefix != "" {
			optFns = append(optFns, s3store.WithPrefix(rc.Prefix))
		}
		if rc.Region != "" {
			optFns = append(optFns, s3store.WithRegion(rc.Region))
		}
		return s3store.New(ctx, rc.Bucket, optFns...)
	case "minio":
		client, err := minio.New(rc.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(rc.AccessKey, rc.SecretKey, ""),
			Secure: rc.Secure,
			Region: rc.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, rc.Bucket, rc.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown remote kind %q", rc.Kind)
	}
}

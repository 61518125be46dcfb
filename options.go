package apilevel

import (
	"os"
	"path/filepath"

	"github.com/hupe1980/apilevel/blobstore"
	"github.com/hupe1980/apilevel/internal/fs"
)

// DefaultDatabaseName is the file name of the knowledge base inside the
// cache directory.
const DefaultDatabaseName = "api-versions.kb"

type options struct {
	descriptor       string
	cacheDir         string
	databaseName     string
	remote           blobstore.BlobStore
	remoteName       string
	fs               fs.FileSystem
	mmap             bool
	modelFallback    bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Open.
type Option func(*options)

// WithDescriptor sets the API descriptor the knowledge base is generated
// from. Without a descriptor an existing or downloaded knowledge base is
// used as is and never regenerated.
func WithDescriptor(path string) Option {
	return func(o *options) {
		o.descriptor = path
	}
}

// WithCacheDir sets the directory holding the knowledge base.
// Defaults to <user cache dir>/apilevel.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// WithDatabaseName sets the file name of the knowledge base inside the cache
// directory. Hosts tracking several platform versions give each one its own
// name.
func WithDatabaseName(name string) Option {
	return func(o *options) {
		o.databaseName = name
	}
}

// WithRemote downloads the knowledge base blob name from store when no local
// copy exists. Compressed blobs (gzip, zstd, lz4) are decoded on the fly.
//
// Example:
//
//	store, _ := s3.New(ctx, "artifacts", s3.WithPrefix("apilevel/"))
//	db, _ := apilevel.Open(ctx, apilevel.WithRemote(store, "android-35.kb.zst"))
func WithRemote(store blobstore.BlobStore, name string) Option {
	return func(o *options) {
		o.remote = store
		o.remoteName = name
	}
}

// WithFileSystem replaces the file system used for the cache directory and
// the descriptor. Knowledge bases are only memory mapped from the local file
// system; with any other FileSystem they are read through it.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithoutMmap reads the knowledge base into the heap instead of mapping it.
func WithoutMmap() Option {
	return func(o *options) {
		o.mmap = false
	}
}

// WithModelFallback answers queries from the descriptor model when no
// usable knowledge base can be produced, instead of failing with
// ErrNoDatabase.
func WithModelFallback() Option {
	return func(o *options) {
		o.modelFallback = true
	}
}

// WithMetricsCollector configures a metrics collector for load operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &apilevel.BasicMetricsCollector{}
//	db, _ := apilevel.Open(ctx, apilevel.WithDescriptor(path), apilevel.WithMetricsCollector(metrics))
//	fmt.Println(metrics.GetStats().RegenerateCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := apilevel.NewJSONLogger(slog.LevelInfo)
//	db, _ := apilevel.Open(ctx, apilevel.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		databaseName:     DefaultDatabaseName,
		fs:               fs.Default,
		mmap:             true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.cacheDir == "" {
		o.cacheDir = DefaultCacheDir()
	}
	return o
}

// DefaultCacheDir returns the cache directory used when WithCacheDir is not
// given.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "apilevel")
}

func (o *options) databasePath() string {
	return filepath.Join(o.cacheDir, o.databaseName)
}

package apilevel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/hupe1980/apilevel/blobstore"
	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/descriptor"
	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/internal/kb"
	"github.com/hupe1980/apilevel/internal/mmap"
)

// DB is an opened knowledge base. It answers every Lookup query and is safe
// for concurrent use. After Close all queries answer None.
type DB struct {
	Lookup

	path   string
	source Source
	size   int
	closed atomic.Bool
}

// Path returns the location of the knowledge base file.
func (db *DB) Path() string { return db.path }

// Source tells where the data came from.
func (db *DB) Source() Source { return db.source }

// Size returns the size of the loaded knowledge base in bytes, or 0 when
// queries are answered from the model.
func (db *DB) Size() int { return db.size }

// Close releases the knowledge base. Closing twice returns ErrClosed.
func (db *DB) Close() error {
	if db.closed.Swap(true) {
		return ErrClosed
	}
	return db.Lookup.Close()
}

// Open makes a knowledge base available and returns it.
//
// The file <cache dir>/<database name> is used when it exists, is not empty
// and is not older than the descriptor. Otherwise it is downloaded from the
// remote store (when configured and the file is missing) or regenerated from
// the descriptor. A file that fails validation is regenerated once. If all of
// this fails, Open falls back to the descriptor model when WithModelFallback
// is set and returns an error wrapping ErrNoDatabase otherwise.
func Open(ctx context.Context, optFns ...Option) (*DB, error) {
	o := applyOptions(optFns)
	l := &loader{
		opts: o,
		path: o.databasePath(),
		log:  o.logger.WithPath(o.databasePath()),
	}
	return l.open(ctx)
}

type loader struct {
	opts options
	path string
	log  *Logger

	api *graph.API // parsed descriptor, kept for the model fallback
}

func (l *loader) open(ctx context.Context) (*DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := SourceCache

	reason, err := l.check()
	if err != nil {
		return nil, err
	}

	if reason == ReasonMissing && l.opts.remote != nil {
		if err := l.download(ctx); err != nil {
			l.log.WarnContext(ctx, "download failed", "blob", l.opts.remoteName, "error", err)
		} else {
			source = SourceRemote
			if reason, err = l.check(); err != nil {
				return nil, err
			}
		}
	}

	if reason != "" {
		if err := l.regenerate(ctx, reason); err != nil {
			return l.fallback(ctx, reason, err)
		}
		source = SourceRegenerated
	}

	db, err := l.load(ctx, source)
	if err == nil {
		return db, nil
	}
	if !isInvalid(err) {
		return l.fallback(ctx, ReasonCorrupt, err)
	}

	l.log.LogCorrupt(ctx, l.path, err)
	reason = invalidReason(err)
	if rerr := l.regenerate(ctx, reason); rerr != nil {
		return l.fallback(ctx, reason, errors.Join(err, rerr))
	}
	db, err = l.load(ctx, SourceRegenerated)
	if err != nil {
		return l.fallback(ctx, invalidReason(err), err)
	}
	return db, nil
}

// check returns why the knowledge base file cannot be used as is, or an
// empty reason when it is up to date.
func (l *loader) check() (Reason, error) {
	st, err := l.opts.fs.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return ReasonMissing, nil
	}
	if err != nil {
		return "", err
	}
	if st.Size() == 0 {
		return ReasonEmpty, nil
	}
	if l.opts.descriptor == "" {
		return "", nil
	}
	descTime, ok, err := fs.ModTime(l.opts.fs, l.opts.descriptor)
	if err != nil {
		return "", err
	}
	if ok && st.ModTime().Before(descTime) {
		return ReasonStale, nil
	}
	return "", nil
}

func (l *loader) download(ctx context.Context) error {
	data, err := blobstore.ReadAll(ctx, l.opts.remote, l.opts.remoteName)
	if err != nil {
		return err
	}
	data, err = codec.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", l.opts.remoteName, err)
	}
	return fs.WriteFileAtomic(l.opts.fs, l.path, data, 0o644)
}

func (l *loader) parseDescriptor() (*graph.API, error) {
	if l.api != nil {
		return l.api, nil
	}
	if l.opts.descriptor == "" {
		return nil, errors.New("no descriptor configured")
	}
	api, err := descriptor.LoadFS(l.opts.fs, l.opts.descriptor)
	if err != nil {
		return nil, err
	}
	l.api = api
	return api, nil
}

func (l *loader) regenerate(ctx context.Context, reason Reason) (err error) {
	start := time.Now()
	var stats kb.Stats
	defer func() {
		l.opts.metricsCollector.RecordRegenerate(reason, time.Since(start), err)
		l.log.LogRegenerate(ctx, l.path, reason, stats.Classes, stats.Members, err)
	}()

	api, err := l.parseDescriptor()
	if err != nil {
		return err
	}
	stats, err = kb.WriteFile(l.opts.fs, l.path, api)
	return err
}

func (l *loader) load(ctx context.Context, source Source) (db *DB, err error) {
	start := time.Now()
	defer func() {
		size := 0
		if db != nil {
			size = db.size
		}
		l.opts.metricsCollector.RecordLoad(source, time.Since(start), err)
		l.log.LogLoad(ctx, l.path, source, size, err)
	}()

	kdb := &kb.Database{}
	// Mappings need a real file, so other file systems are read into the heap.
	if _, local := l.opts.fs.(fs.LocalFS); l.opts.mmap && local {
		m, err := mmap.Open(l.path)
		if err != nil {
			return nil, err
		}
		_ = m.Advise(mmap.AccessRandom)
		if err := kdb.Load(m.Bytes(), m); err != nil {
			_ = m.Close()
			return nil, err
		}
	} else {
		data, err := fs.ReadFile(l.opts.fs, l.path)
		if err != nil {
			return nil, err
		}
		if err := kdb.Load(data, nil); err != nil {
			return nil, err
		}
	}

	return &DB{
		Lookup: binaryLookup{kdb},
		path:   l.path,
		source: source,
		size:   kdb.Size(),
	}, nil
}

func (l *loader) fallback(ctx context.Context, reason Reason, cause error) (*DB, error) {
	loadErr := &LoadError{Path: l.path, Reason: reason, cause: cause}
	if !l.opts.modelFallback {
		return nil, loadErr
	}
	api, err := l.parseDescriptor()
	if err != nil {
		return nil, loadErr
	}

	l.opts.metricsCollector.RecordFallback(reason)
	l.log.LogFallback(ctx, l.path, cause)

	return &DB{
		Lookup: NewModelLookup(api),
		path:   l.path,
		source: SourceModel,
	}, nil
}

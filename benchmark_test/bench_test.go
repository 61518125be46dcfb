package benchmark_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/internal/kb"
	"github.com/hupe1980/apilevel/model"
	"github.com/hupe1980/apilevel/testutil"
)

type query struct {
	owner, name, desc string
}

func benchAPI(b *testing.B, classes int) *graph.API {
	b.Helper()
	opts := testutil.DefaultAPIOptions()
	opts.Classes = classes
	opts.Packages = 16
	return testutil.RandomAPI(testutil.NewRNG(42), opts)
}

// queries samples member lookups. Roughly half hit a declared or inherited
// member, the rest fall back to the class answer or miss entirely.
func queries(api *graph.API, n int) []query {
	rng := testutil.NewRNG(7)
	classes := api.Classes()
	out := make([]query, 0, n)
	for len(out) < n {
		c := classes[rng.Intn(len(classes))]
		methods := c.AllMethods(api, false)
		switch {
		case len(methods) > 0 && rng.Chance(0.5):
			m := model.Member{Signature: methods[rng.Intn(len(methods))]}
			desc := strings.TrimPrefix(m.Signature, m.Name()) + "V"
			out = append(out, query{owner: c.Name(), name: m.Name(), desc: desc})
		case rng.Chance(0.8):
			out = append(out, query{owner: c.Name(), name: "missing", desc: "()V"})
		default:
			out = append(out, query{owner: c.Name() + "$Unknown", name: "run", desc: "()V"})
		}
	}
	return out
}

func BenchmarkEncode(b *testing.B) {
	for _, size := range []struct {
		name    string
		classes int
	}{
		{"1K", 1_000},
		{"10K", 10_000},
	} {
		b.Run(size.name, func(b *testing.B) {
			api := benchAPI(b, size.classes)
			b.ReportAllocs()
			b.ResetTimer()
			var bytes int
			for i := 0; i < b.N; i++ {
				buf, _, err := kb.Encode(api)
				if err != nil {
					b.Fatal(err)
				}
				bytes = len(buf)
			}
			b.ReportMetric(float64(bytes), "bytes/db")
		})
	}
}

func BenchmarkMethodVersion(b *testing.B) {
	api := benchAPI(b, 5_000)
	buf, _, err := kb.Encode(api)
	if err != nil {
		b.Fatal(err)
	}
	db, err := kb.Open(buf)
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	qs := queries(api, 4096)
	ml := apilevel.NewModelLookup(api)
	defer ml.Close()

	b.Run("Binary", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			q := qs[i%len(qs)]
			_ = db.MethodVersion(q.owner, q.name, q.desc)
		}
	})

	b.Run("Model", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			q := qs[i%len(qs)]
			_ = ml.MethodVersion(q.owner, q.name, q.desc)
		}
	})

	b.Run("Binary_Parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				q := qs[i%len(qs)]
				_ = db.MethodVersion(q.owner, q.name, q.desc)
				i++
			}
		})
	})
}

func BenchmarkValidCastVersion(b *testing.B) {
	api := benchAPI(b, 5_000)
	buf, _, err := kb.Encode(api)
	if err != nil {
		b.Fatal(err)
	}
	db, err := kb.Open(buf)
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	classes := api.Classes()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src := classes[i%len(classes)]
		dst := classes[(i*31)%len(classes)]
		_ = db.ValidCastVersion(src.Name(), dst.Name())
	}
}

func BenchmarkOpen(b *testing.B) {
	api := benchAPI(b, 10_000)
	dir := b.TempDir()
	if _, err := kb.WriteFile(nil, filepath.Join(dir, apilevel.DefaultDatabaseName), api); err != nil {
		b.Fatal(err)
	}

	for _, mode := range []struct {
		name string
		opts []apilevel.Option
	}{
		{"Mmap", nil},
		{"Heap", []apilevel.Option{apilevel.WithoutMmap()}},
	} {
		b.Run(mode.name, func(b *testing.B) {
			opts := append([]apilevel.Option{apilevel.WithCacheDir(dir)}, mode.opts...)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				db, err := apilevel.Open(context.Background(), opts...)
				if err != nil {
					b.Fatal(err)
				}
				if db.Source() != apilevel.SourceCache {
					b.Fatalf("unexpected source %s", db.Source())
				}
				_ = db.Close()
			}
		})
	}
}

package commands

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/descriptor"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/internal/kb"
)

type buildResult struct {
	Descriptor string        `json:"descriptor"`
	Output     string        `json:"output"`
	Stats      kb.Stats      `json:"stats"`
	Duration   time.Duration `json:"duration_ns"`
}

func newBuildCommand(a *app) *cobra.Command {
	var (
		outDir   string
		compress string
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "build [descriptor...]",
		Short: "Compile API descriptors into knowledge bases",
		Long: `Compile API descriptors into binary knowledge bases.

Without arguments the configured descriptor is compiled into the configured
cache directory, which is where query and the library look for it. Several
descriptors are compiled in parallel; each one is written next to the others
in --out as <name>.kb. Descriptors sharing a file name are named after their
directory instead, and the build fails if two outputs still collide.`,
		Example: `  # Rebuild the configured knowledge base
  apilevel build --descriptor sdk/api-versions.xml

  # Compile several platform versions, zstd compressed for publishing
  apilevel build sdk/33/api-versions.xml sdk/34/api-versions.xml --out dist --compress zstd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := codec.ParseCompression(compress)
			if err != nil {
				return err
			}

			targets, err := a.buildTargets(args, outDir, comp)
			if err != nil {
				return err
			}

			if jobs < 1 {
				jobs = 1
			}
			results := make([]buildResult, len(targets))
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, t := range targets {
				g.Go(func() error {
					res, err := buildOne(t[0], t[1], comp)
					if err != nil {
						return fmt.Errorf("%s: %w", t[0], err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if a.jsonOut {
				return a.printJSON(cmd.OutOrStdout(), results)
			}
			ok := color.New(color.FgGreen, color.Bold)
			for _, r := range results {
				ok.Fprint(cmd.OutOrStdout(), "✓ ")
				fmt.Fprintf(cmd.OutOrStdout(), "%s → %s (%d classes, %d members, %d pruned, %d bytes, %s)\n",
					r.Descriptor, r.Output, r.Stats.Classes, r.Stats.Members, r.Stats.Pruned, r.Stats.Bytes,
					r.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory for descriptor arguments")
	cmd.Flags().StringVar(&compress, "compress", "none", "compress outputs (none, gzip, zstd, lz4)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "descriptors compiled in parallel")
	return cmd
}

// buildTargets pairs every descriptor with its output path.
func (a *app) buildTargets(args []string, outDir string, comp codec.Compression) ([][2]string, error) {
	if len(args) == 0 {
		if a.cfg.Descriptor == "" {
			return nil, fmt.Errorf("no descriptor given and none configured")
		}
		dir := a.cfg.CacheDir
		if dir == "" {
			dir = apilevel.DefaultCacheDir()
		}
		return [][2]string{{a.cfg.Descriptor, filepath.Join(dir, a.cfg.Database) + comp.Extension()}}, nil
	}

	names := make([]string, len(args))
	seen := make(map[string]int, len(args))
	for i, desc := range args {
		names[i] = descriptorName(desc)
		seen[names[i]]++
	}

	targets := make([][2]string, 0, len(args))
	owner := make(map[string]string, len(args))
	for i, desc := range args {
		name := names[i]
		// sdk/33/api-versions.xml and sdk/34/api-versions.xml become 33.kb and 34.kb.
		if seen[name] > 1 {
			name = filepath.Base(filepath.Dir(filepath.Clean(desc)))
		}
		out := filepath.Join(outDir, name+".kb"+comp.Extension())
		if prev, ok := owner[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, desc, out)
		}
		owner[out] = desc
		targets = append(targets, [2]string{desc, out})
	}
	return targets, nil
}

// descriptorName strips the directory and every extension from desc.
func descriptorName(desc string) string {
	base := filepath.Base(codec.TrimExtension(desc))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func buildOne(desc, out string, comp codec.Compression) (buildResult, error) {
	start := time.Now()

	api, err := descriptor.Load(desc)
	if err != nil {
		return buildResult{}, err
	}
	data, stats, err := kb.Encode(api)
	if err != nil {
		return buildResult{}, err
	}
	data, err = codec.Compress(comp, data)
	if err != nil {
		return buildResult{}, err
	}
	if err := fs.WriteFileAtomic(fs.Default, out, data, 0o644); err != nil {
		return buildResult{}, err
	}

	return buildResult{
		Descriptor: desc,
		Output:     out,
		Stats:      stats,
		Duration:   time.Since(start),
	}, nil
}

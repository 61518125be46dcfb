package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/internal/fs"
	"github.com/hupe1980/apilevel/internal/kb"
)

type publishResult struct {
	File  string `json:"file"`
	Blob  string `json:"blob"`
	Bytes int    `json:"bytes"`
}

func newPublishCommand(a *app) *cobra.Command {
	var (
		name     string
		compress string
	)

	cmd := &cobra.Command{
		Use:   "publish [FILE]",
		Short: "Upload a knowledge base to the configured remote store",
		Long: `Upload a knowledge base to the configured remote store, from where
clients configured with the same remote download it instead of building it.
Without FILE the configured knowledge base is published.`,
		Example: `  APILEVEL_REMOTE_KIND=s3 APILEVEL_REMOTE_BUCKET=artifacts \
    apilevel publish dist/android-35.kb --compress zstd`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Remote.Kind == "" {
				return fmt.Errorf("no remote configured")
			}
			comp, err := codec.ParseCompression(compress)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				db, err := a.open(cmd)
				if err != nil {
					return err
				}
				path = db.Path()
				_ = db.Close()
			}

			data, err := fs.ReadFile(fs.Default, path)
			if err != nil {
				return err
			}
			// Refuse to publish something clients would reject.
			if _, err := kb.Open(data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			data, err = codec.Compress(comp, data)
			if err != nil {
				return err
			}

			blob := name
			if blob == "" {
				blob = a.cfg.Remote.Name
			}
			if blob == "" {
				blob = filepath.Base(path) + comp.Extension()
			}

			store, err := newStore(cmd.Context(), a.cfg.Remote)
			if err != nil {
				return err
			}
			if err := store.Put(cmd.Context(), blob, data); err != nil {
				return err
			}

			res := publishResult{File: path, Blob: blob, Bytes: len(data)}
			if a.jsonOut {
				return a.printJSON(cmd.OutOrStdout(), res)
			}
			color.New(color.FgGreen, color.Bold).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s (%d bytes)\n", res.File, res.Blob, res.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "blob name (default remote.name or the file name)")
	cmd.Flags().StringVar(&compress, "compress", "zstd", "compression (none, gzip, zstd, lz4)")
	return cmd
}

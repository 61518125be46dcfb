package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/apilevel/internal/kb"
	"github.com/hupe1980/apilevel/internal/mmap"
)

type statsReport struct {
	Path     string `json:"path"`
	Format   int    `json:"format_version"`
	Bytes    int    `json:"bytes"`
	Packages int    `json:"packages"`
	Classes  int    `json:"classes"`
	Members  int    `json:"members"`
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [FILE]",
		Short: "Show the size and entry counts of a knowledge base",
		Long: `Show the size and entry counts of a knowledge base. Without FILE the
configured knowledge base is opened (and generated if needed) first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			report, err := readStats(path)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return a.printJSON(cmd.OutOrStdout(), report)
			}
			key := color.New(color.FgCyan)
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, report.Path)
			key.Fprint(w, "  format:   ")
			fmt.Fprintln(w, report.Format)
			key.Fprint(w, "  bytes:    ")
			fmt.Fprintln(w, report.Bytes)
			key.Fprint(w, "  packages: ")
			fmt.Fprintln(w, report.Packages)
			key.Fprint(w, "  classes:  ")
			fmt.Fprintln(w, report.Classes)
			key.Fprint(w, "  members:  ")
			fmt.Fprintln(w, report.Members)
			return nil
		},
	}
}

func readStats(path string) (statsReport, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return statsReport{}, err
	}
	db := &kb.Database{}
	if err := db.Load(m.Bytes(), m); err != nil {
		_ = m.Close()
		return statsReport{}, fmt.Errorf("%s: %w", path, err)
	}
	defer db.Close()

	packages, classes, members := db.Counts()
	return statsReport{
		Path:     path,
		Format:   kb.FormatVersion,
		Bytes:    db.Size(),
		Packages: packages,
		Classes:  classes,
		Members:  members,
	}, nil
}

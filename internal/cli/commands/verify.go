package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/descriptor"
)

type verifyReport struct {
	Descriptor string              `json:"descriptor"`
	Database   string              `json:"database"`
	Classes    int                 `json:"classes"`
	Mismatches []apilevel.Mismatch `json:"mismatches"`
}

func newVerifyCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the knowledge base answers like the descriptor",
		Long: `Ask the knowledge base every class, member and cast query the descriptor
can answer and compare the answers with the in-memory model. Exits with an
error when any answer differs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Descriptor == "" {
				return fmt.Errorf("verify needs a descriptor")
			}
			api, err := descriptor.Load(a.cfg.Descriptor)
			if err != nil {
				return err
			}

			db, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			if db.Source() == apilevel.SourceModel {
				return fmt.Errorf("no knowledge base to verify at %s", db.Path())
			}

			report := verifyReport{
				Descriptor: a.cfg.Descriptor,
				Database:   db.Path(),
				Classes:    api.Len(),
				Mismatches: apilevel.Verify(api, db, limit),
			}

			if a.jsonOut {
				if err := a.printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else if len(report.Mismatches) == 0 {
				color.New(color.FgGreen, color.Bold).Fprint(cmd.OutOrStdout(), "✓ ")
				fmt.Fprintf(cmd.OutOrStdout(), "%s matches %s (%d classes)\n", report.Database, report.Descriptor, report.Classes)
			} else {
				bad := color.New(color.FgRed)
				for _, m := range report.Mismatches {
					bad.Fprintln(cmd.OutOrStdout(), m.String())
				}
			}

			if n := len(report.Mismatches); n > 0 {
				return fmt.Errorf("%d mismatching answers", n)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "stop after this many mismatches (0 for no limit)")
	return cmd
}

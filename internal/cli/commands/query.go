package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/model"
)

// versions is the answer to a class, method or field query.
type versions struct {
	Query      string `json:"query"`
	Known      bool   `json:"known"`
	Since      int    `json:"since"`
	Deprecated int    `json:"deprecated"`
	Removed    int    `json:"removed"`
}

func newQueryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up API levels",
		Long: `Look up the API level a class, method or field was introduced, deprecated
or removed in. Class names use the internal slash form (android/app/Activity).
Unknown classes and events that never happened print as "-" (-1 in JSON).`,
		Example: `  apilevel query class android/widget/Toolbar
  apilevel query method android/app/Activity onApplyWindowInsets '(Landroid/view/WindowInsets;)Landroid/view/WindowInsets;'
  apilevel query field android/os/Build$VERSION_CODES TIRAMISU
  apilevel query cast android/widget/Toolbar android/view/ViewGroup`,
	}

	cmd.AddCommand(
		a.lookupCommand("class OWNER", "Versions of a class", 1, func(db *apilevel.DB, args []string) any {
			owner := args[0]
			return versions{
				Query:      owner,
				Known:      db.ContainsClass(owner),
				Since:      db.ClassVersion(owner),
				Deprecated: db.ClassDeprecatedIn(owner),
				Removed:    db.ClassRemovedIn(owner),
			}
		}),
		a.lookupCommand("method OWNER NAME DESC", "Versions of a method", 3, func(db *apilevel.DB, args []string) any {
			owner, name, desc := args[0], args[1], args[2]
			return versions{
				Query:      owner + "." + name + desc,
				Known:      db.ContainsClass(owner),
				Since:      db.MethodVersion(owner, name, desc),
				Deprecated: db.MethodDeprecatedIn(owner, name, desc),
				Removed:    db.MethodRemovedIn(owner, name, desc),
			}
		}),
		a.lookupCommand("field OWNER NAME", "Versions of a field", 2, func(db *apilevel.DB, args []string) any {
			owner, name := args[0], args[1]
			return versions{
				Query:      owner + "." + name,
				Known:      db.ContainsClass(owner),
				Since:      db.FieldVersion(owner, name),
				Deprecated: db.FieldDeprecatedIn(owner, name),
				Removed:    db.FieldRemovedIn(owner, name),
			}
		}),
		a.lookupCommand("cast SOURCE DEST", "First level in which SOURCE is assignable to DEST", 2, func(db *apilevel.DB, args []string) any {
			return castResult{Source: args[0], Dest: args[1], Version: db.ValidCastVersion(args[0], args[1])}
		}),
		a.lookupCommand("removed OWNER", "Removed fields and methods of a class", 1, func(db *apilevel.DB, args []string) any {
			return memberList{Owner: args[0], Fields: db.RemovedFields(args[0]), Methods: db.RemovedCalls(args[0])}
		}),
		a.lookupCommand("members OWNER", "Members whose versions differ from the class", 1, func(db *apilevel.DB, args []string) any {
			var out memberList
			out.Owner = args[0]
			for _, m := range db.Members(args[0]) {
				if m.IsMethod() {
					out.Methods = append(out.Methods, m)
				} else {
					out.Fields = append(out.Fields, m)
				}
			}
			return out
		}),
		a.lookupCommand("package NAME", "Whether a package (or the package of a class) exists", 1, func(db *apilevel.DB, args []string) any {
			return packageResult{Package: args[0], Valid: db.IsValidPackage(args[0])}
		}),
	)
	return cmd
}

type castResult struct {
	Source  string `json:"source"`
	Dest    string `json:"dest"`
	Version int    `json:"version"`
}

type memberList struct {
	Owner   string         `json:"owner"`
	Fields  []model.Member `json:"fields"`
	Methods []model.Member `json:"methods"`
}

type packageResult struct {
	Package string `json:"package"`
	Valid   bool   `json:"valid"`
}

// lookupCommand builds a subcommand that opens the knowledge base, runs fn
// and prints its result.
func (a *app) lookupCommand(use, short string, nargs int, fn func(db *apilevel.DB, args []string) any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			res := fn(db, args)
			if a.jsonOut {
				return a.printJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func level(v int) string {
	if v == apilevel.None {
		return "-"
	}
	return strconv.Itoa(v)
}

func printResult(w io.Writer, res any) {
	key := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)

	switch r := res.(type) {
	case versions:
		if !r.Known {
			warn.Fprintf(w, "%s: unknown class\n", r.Query)
			return
		}
		fmt.Fprintln(w, r.Query)
		key.Fprint(w, "  since:      ")
		fmt.Fprintln(w, level(r.Since))
		key.Fprint(w, "  deprecated: ")
		fmt.Fprintln(w, level(r.Deprecated))
		key.Fprint(w, "  removed:    ")
		fmt.Fprintln(w, level(r.Removed))
	case castResult:
		fmt.Fprintf(w, "%s → %s: %s\n", r.Source, r.Dest, level(r.Version))
	case memberList:
		fmt.Fprintln(w, r.Owner)
		for _, group := range []struct {
			name    string
			members []model.Member
		}{{"fields", r.Fields}, {"methods", r.Methods}} {
			key.Fprintf(w, "  %s (%d)\n", group.name, len(group.members))
			for _, m := range group.members {
				fmt.Fprintf(w, "    %-40s since %s, deprecated %s, removed %s\n", m.Signature,
					level(int(m.Info.Since)), level(orNone(m.Info.Deprecated)), level(orNone(m.Info.Removed)))
			}
		}
	case packageResult:
		if r.Valid {
			fmt.Fprintf(w, "%s: valid\n", r.Package)
		} else {
			warn.Fprintf(w, "%s: unknown package\n", r.Package)
		}
	}
}

func orNone(v model.Version) int {
	if v == 0 {
		return apilevel.None
	}
	return int(v)
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/codec"
	"github.com/hupe1980/apilevel/internal/cli/config"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the resolved configuration into the subcommands.
type app struct {
	configPath string
	jsonOut    bool

	// flag overrides
	cacheDir   string
	descriptor string
	database   string
	logLevel   string
	noMmap     bool
	fallback   bool

	cfg *config.Config
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "apilevel",
		Short: "Build and query platform API version knowledge bases",
		Long: color.CyanString(`apilevel - platform API version knowledge base

apilevel compiles an API descriptor (api-versions.xml, YAML or JSON) into a
compact binary knowledge base and answers "since which API level" questions
for classes, methods, fields and casts.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./apilevel.yaml)")
	pf.BoolVar(&a.jsonOut, "json", false, "print machine-readable JSON")
	pf.StringVar(&a.cacheDir, "cache-dir", "", "directory holding the knowledge base")
	pf.StringVar(&a.descriptor, "descriptor", "", "API descriptor the knowledge base is generated from")
	pf.StringVar(&a.database, "database", "", "knowledge base file name inside the cache directory")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.noMmap, "no-mmap", false, "read the knowledge base into memory instead of mapping it")
	pf.BoolVar(&a.fallback, "fallback", false, "answer from the descriptor when no knowledge base can be built")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newBuildCommand(a))
	rootCmd.AddCommand(newQueryCommand(a))
	rootCmd.AddCommand(newStatsCommand(a))
	rootCmd.AddCommand(newVerifyCommand(a))
	rootCmd.AddCommand(newPublishCommand(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = a.cacheDir
	}
	if flags.Changed("descriptor") {
		cfg.Descriptor = a.descriptor
	}
	if flags.Changed("database") {
		cfg.Database = a.database
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("no-mmap") {
		cfg.Mmap = !a.noMmap
	}
	if flags.Changed("fallback") {
		cfg.Fallback = a.fallback
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *app) logger(w io.Writer) *apilevel.Logger {
	level, _ := a.cfg.Log.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if a.cfg.Log.Format == "json" {
		return apilevel.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return apilevel.NewLogger(slog.NewTextHandler(w, opts))
}

// openOptions translates the configuration into apilevel.Open options.
func (a *app) openOptions(ctx context.Context, cmd *cobra.Command) ([]apilevel.Option, error) {
	opts := []apilevel.Option{
		apilevel.WithDatabaseName(a.cfg.Database),
		apilevel.WithLogger(a.logger(cmd.ErrOrStderr())),
	}
	if a.cfg.CacheDir != "" {
		opts = append(opts, apilevel.WithCacheDir(a.cfg.CacheDir))
	}
	if a.cfg.Descriptor != "" {
		opts = append(opts, apilevel.WithDescriptor(a.cfg.Descriptor))
	}
	if !a.cfg.Mmap {
		opts = append(opts, apilevel.WithoutMmap())
	}
	if a.cfg.Fallback {
		opts = append(opts, apilevel.WithModelFallback())
	}
	if a.cfg.Remote.Kind != "" && a.cfg.Remote.Name != "" {
		store, err := newStore(ctx, a.cfg.Remote)
		if err != nil {
			return nil, err
		}
		opts = append(opts, apilevel.WithRemote(store, a.cfg.Remote.Name))
	}
	return opts, nil
}

func (a *app) open(cmd *cobra.Command) (*apilevel.DB, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := a.openOptions(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return apilevel.Open(ctx, opts...)
}

func (a *app) printJSON(w io.Writer, v any) error {
	return codec.Fprint(w, codec.JSON{Indent: true}, v)
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()

			title.Fprint(w, "apilevel version: ")
			fmt.Fprintln(w, Version)
			title.Fprint(w, "Git commit: ")
			fmt.Fprintln(w, GitCommit)
			title.Fprint(w, "Build date: ")
			fmt.Fprintln(w, BuildDate)
			return nil
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

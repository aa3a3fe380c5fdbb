package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"simpleorm/internal/config"
	"simpleorm/internal/database"
	"simpleorm/internal/logging"
	"simpleorm/internal/model"
	"simpleorm/internal/orm"
)

// flags shared by every command
type globalFlags struct {
	configPath string
	envFiles   []string
	dialect    string
	dsn        string
	path       string
	logLevel   string
}

// row maps any table for the maintenance commands
type row struct {
	orm.Record
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("ormdemo: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "ormdemo",
		Short:         "Exercise the simpleorm engine against SQLite or PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default: search $SIMPLEORM_CONFIG, ./simpleorm.yaml, XDG, /etc)")
	pf.StringSliceVar(&g.envFiles, "env-file", nil, ".env files to load (default ./.env)")
	pf.StringVar(&g.dialect, "dialect", "", "override database dialect (sqlite, postgres)")
	pf.StringVar(&g.dsn, "dsn", "", "override driver connection string")
	pf.StringVar(&g.path, "db", "", "override SQLite database path")
	pf.StringVar(&g.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newDemoCmd(g),
		newMigrateCmd(g),
		newColumnsCmd(g),
		newCountCmd(g),
		newTruncateCmd(g),
		newExportCmd(g),
		newImportCmd(g),
		newConfigCmd(g),
	)
	return root
}

// resolveConfig loads .env files, the config file, environment overrides
// and flag overrides, in that order. path is "" when defaults were used.
func resolveConfig(g *globalFlags) (*config.Config, string, error) {
	if err := config.LoadEnv(g.envFiles...); err != nil {
		return nil, "", err
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if g.configPath != "" {
		cfg, path, err = config.LoadFromPath(g.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", err
	}

	cfg.Override(config.Overrides{
		Dialect:  g.dialect,
		DSN:      g.dsn,
		Path:     g.path,
		LogLevel: g.logLevel,
	})
	return cfg, path, nil
}

// connect resolves configuration and opens the engine as the process default
func connect(ctx context.Context, g *globalFlags) (*orm.Engine, *slog.Logger, func(), error) {
	cfg, path, err := resolveConfig(g)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg.Database.Default = true

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}

	eng, err := database.Open(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}

	cleanup := func() {
		eng.Close()
		orm.Use(nil)
		closeLog()
	}
	return eng, logger, cleanup, nil
}

func newMigrateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and servicos tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := model.Migrate(cmd.Context(), eng); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables users and servicos are ready")
			return nil
		},
	}
}

func newColumnsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "List a table's columns in physical order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			cols, err := eng.Columns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range cols {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newCountCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count <table>",
		Short: "Count the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := tableModel(args[0]).Count(cmd.Context(), "SELECT COUNT(*) FROM :table")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", args[0], n)
			return nil
		},
	}
}

func newTruncateCmd(g *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "truncate <table>",
		Short: "Delete EVERY row of a table (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to truncate %s without --yes", args[0])
			}

			_, _, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := tableModel(args[0]).Truncate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s truncated\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm that every row will be deleted")
	return cmd
}

func tableModel(table string) *orm.Model[*row] {
	return orm.NewModel(func() *row { return &row{} }, orm.Binding{Table: table})
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/cmd/cli/commands"
	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/db"
	"github.com/jakechorley/turnify/pkg/postgres"
	"github.com/jakechorley/turnify/pkg/sqlite"
	"github.com/jakechorley/turnify/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "turnify",
		Short:        "Turnify - Generate staff shift plannings",
		Long:         `A CLI tool for maintaining a staff roster and generating multi-week shift plannings that respect coverage and labour constraints.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects turnify_config.<env>.yaml and .env.<env>)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs, including planner decisions")

	rootCmd.AddCommand(commands.GeneratePlanningCmd(app))
	rootCmd.AddCommand(commands.ViewPlanningCmd(app))
	rootCmd.AddCommand(commands.ExportPlanningCmd(app))
	rootCmd.AddCommand(commands.ClearPlanningCmd(app))
	rootCmd.AddCommand(commands.PublishPlanningCmd(app))
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.SeedRosterCmd(app))
	rootCmd.AddCommand(commands.MetricsCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	return rootCmd
}

// initApp sets up logger, config and database
func initApp(ctx context.Context) error {
	var err error
	app.Ctx = ctx
	app.Env = env

	app.Logger, err = logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	if env == "" {
		app.Cfg, err = config.Load()
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Debug("Opening database", zap.String("driver", app.Cfg.Storage.Driver))
	app.Database, err = openDatabase(ctx, app.Cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.Logger.Debug("Database opened successfully")

	return nil
}

func closeApp() {
	if app.Database != nil {
		if err := app.Database.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close database", zap.Error(err))
		}
		app.Database = nil
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}

// openDatabase selects the store for the configured driver
func openDatabase(ctx context.Context, storage config.StorageConfig) (db.Database, error) {
	var (
		database db.Database
		err      error
	)
	switch storage.Driver {
	case config.DriverPostgres:
		var pg *postgres.DB
		pg, err = postgres.NewDB(ctx, storage.DSN)
		database = pg
	case config.DriverSQLite:
		var lite *sqlite.DB
		lite, err = sqlite.New(ctx, storage.Path)
		database = lite
	case config.DriverFile, "":
		var file *db.DB
		file, err = db.NewDB(storage.Path)
		database = file
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
	if err != nil {
		return nil, err
	}
	return database, nil
}

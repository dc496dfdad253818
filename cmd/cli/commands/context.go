package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/db"
)

// AppContext holds the application dependencies shared across all commands.
// It is filled in by the root command before any subcommand runs.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/turnify/pkg/httpapi"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster and planning HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Cfg.Server.Addr
			}

			router := httpapi.NewRouter(httpapi.Deps{
				Store:         app.Database,
				Config:        app.Cfg,
				Logger:        app.Logger,
				RequestLogger: httpapi.NewRequestLogger(app.Env),
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gCtx := errgroup.WithContext(app.Ctx)

			g.Go(func() error {
				app.Logger.Info("HTTP API listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})

			g.Go(func() error {
				<-gCtx.Done()
				app.Logger.Info("Shutting down HTTP API")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from the config)")

	return cmd
}

package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/cli/config"
	controller "github.com/m-mizutani/officeimg/pkg/controller/http"
	"github.com/m-mizutani/officeimg/pkg/usecase"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(g *globalConfig) *cli.Command {
	var serverCfg config.Server

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   serverCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			serverCfg.ApplyProfile(c, g.profile)

			logger.Info("Starting officeimg server",
				slog.String("addr", serverCfg.Addr),
				slog.Int64("max_upload_size", serverCfg.MaxUploadSize),
				slog.String("job_source_root", serverCfg.JobSourceRoot),
				slog.String("job_output_root", serverCfg.JobOutputRoot),
			)

			// Create use cases
			extractUC, closeExtract, err := g.newExtractUseCase(ctx, extractDeps{logNotifications: true})
			defer closeExtract()
			if err != nil {
				return err
			}

			repo, closeRepo, err := g.newJobRepository(ctx)
			defer closeRepo()
			if err != nil {
				return err
			}
			jobUC := usecase.NewJob(extractUC, repo)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				extractUC,
				jobUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMaxUploadSize(serverCfg.MaxUploadSize),
				controller.WithJobSourceRoot(serverCfg.JobSourceRoot),
				controller.WithJobOutputRoot(serverCfg.JobOutputRoot),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serverErr:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

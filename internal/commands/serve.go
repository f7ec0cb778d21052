package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uttrekk-dev/uttrekk/internal/config"
	"github.com/uttrekk-dev/uttrekk/internal/extract"
	"github.com/uttrekk-dev/uttrekk/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger()

			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			srv := server.New(extract.Default(), log, server.Options{
				EnableMetrics:  cfg.Server.Metrics,
				EnableCORS:     cfg.Server.CORS,
				MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
			})

			httpSrv := &http.Server{
				Addr:              cfg.Server.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			log.Info().
				Str("listen", cfg.Server.Listen).
				Bool("metrics", cfg.Server.Metrics).
				Msg("Extraction service started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("Shutting down")
				ctx, cancel := context.WithTimeout(cmd.Context(), shutdownTimeout)
				defer cancel()
				return httpSrv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to uttrekk.yaml")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

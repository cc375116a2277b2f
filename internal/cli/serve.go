package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdamkota/asetledger/internal/api"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
	"github.com/pdamkota/asetledger/internal/logger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return err
	}
	if !cfg.Auth.Disabled && cfg.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is not set; set it in config.toml or disable auth for local development")
	}
	if cfg.Auth.Disabled {
		log.Warn().Msg("authentication is disabled")
	}

	db, err := sqlite.Open(cfg.DB.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := api.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Disabled)
	server := api.NewServer(db, auth)
	if cfg.Metrics.Enabled {
		server.EnableMetrics()
	}
	if cfg.API.TimeoutSeconds > 0 {
		server.SetTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second)
	}

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", api.Version).Msg("api server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

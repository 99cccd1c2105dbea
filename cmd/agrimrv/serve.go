package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/jonathan/agrimrv-lite/internal/logging"
	"github.com/jonathan/agrimrv-lite/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort  int
	configPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start an HTTP server that renders the AgriMRV-Lite pages and the read-only JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and environment, then applies the CLI flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.Bool("database", cfg.UseDatabase()),
		zap.Duration("recording_duration", cfg.RecordingDuration),
		zap.Duration("verification_delay", cfg.VerificationDelay))

	return srv.Start(ctx)
}

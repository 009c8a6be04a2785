package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/monitoring/health"
)

var serveInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run checks on an interval and expose health and metrics over HTTP",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "check interval (overrides serve.interval)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if serveInterval > 0 {
		cfg.Serve.Interval = serveInterval
	}

	a := newApp(cfg)
	defer func() {
		_ = a.api.Close()
	}()

	monitor := health.NewMonitor(3*cfg.Serve.Interval, a.api)
	server := health.NewServer(monitor, cfg.Server.Port)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server failed", "error", err)
		}
	}()
	slog.Info("Health server started", "port", cfg.Server.Port, "interval", cfg.Serve.Interval)

	ctx, cancel := signalContext()
	defer cancel()

	runAndRecord := func() {
		report, err := a.runner.Run(ctx)
		if err != nil {
			slog.Error("Failed to send report", "error", err)
		}
		if report != nil {
			monitor.Record(report)
		}
	}

	ticker := time.NewTicker(cfg.Serve.Interval)
	defer ticker.Stop()

	runAndRecord()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Received signal, shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := server.Stop(shutdownCtx); err != nil {
				slog.Error("Error during shutdown", "error", err)
			}
			return
		case <-ticker.C:
			runAndRecord()
		}
	}
}

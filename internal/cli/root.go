package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/infra/nodeapi"
	"github.com/vietddude/nodewatch/internal/infra/notify"
	"github.com/vietddude/nodewatch/internal/infra/probe"
	"github.com/vietddude/nodewatch/internal/monitoring/checker"
	"github.com/vietddude/nodewatch/internal/monitoring/runner"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "nodewatch",
	Short: "DPOS node monitor",
	Long: `nodewatch checks the nodes of every configured DPOS environment against the
consensus of the network and sends one alert message when nodes fall behind,
run an outdated version or stop answering.`,
	Run: runOnce,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig loads .env and the config file and sets up logging. A config
// that cannot be loaded ends the process before any check runs.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	switch {
	case isDebug || cfg.Logging.Level == "debug":
		slogLevel = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		slogLevel = slog.LevelWarn
	case cfg.Logging.Level == "error":
		slogLevel = slog.LevelError
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	return cfg
}

// app is the wired check pipeline.
type app struct {
	runner *runner.Runner
	api    *nodeapi.Client
}

func newApp(cfg *config.AppConfig) *app {
	api := nodeapi.NewClient(cfg.Probe.Timeout)
	chk := checker.New(cfg, cfg, probe.NewPinger(cfg.Probe), probe.NewStatusProber(api, cfg))
	return &app{
		runner: runner.New(cfg, chk, notify.New(cfg.Notify)),
		api:    api,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runOnce(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	a := newApp(cfg)
	defer func() {
		_ = a.api.Close()
	}()

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := a.runner.Run(ctx); err != nil {
		slog.Error("Failed to send report", "error", err)
	}
}

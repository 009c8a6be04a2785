// Package notify delivers the aggregated alert message.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/nodewatch/internal/core/config"
)

// Reporter delivers one alert message.
type Reporter interface {
	Name() string
	Report(ctx context.Context, message string) error
}

// New builds the reporters enabled in cfg. With none enabled, messages are
// written to the log.
func New(cfg config.NotifyConfig) Reporter {
	var reporters []Reporter
	if cfg.Telegram.Enabled {
		reporters = append(reporters, NewTelegram(cfg.Telegram))
	}
	if cfg.Mail.Enabled {
		reporters = append(reporters, NewMail(cfg.Mail))
	}

	switch len(reporters) {
	case 0:
		return NewLog(slog.Default())
	case 1:
		return reporters[0]
	default:
		return Multi(reporters)
	}
}

// Multi sends to every reporter and joins their errors.
type Multi []Reporter

func (m Multi) Name() string { return "multi" }

func (m Multi) Report(ctx context.Context, message string) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Log writes alerts to a logger.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Report(_ context.Context, message string) error {
	l.log.Warn("Node alert", "message", message)
	return nil
}

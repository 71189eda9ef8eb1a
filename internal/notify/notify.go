// Package notify delivers pre-reboot warnings to an operator. The only
// channel is Telegram (via Telego); a disabled channel degrades to a
// no-op so callers never branch on configuration.
package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/logger"
)

// Notifier delivers a short operator-facing message. Failures must never
// block or cancel the reboot that triggered the notification.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Noop is the Notifier used when no channel is configured.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(context.Context, string) error { return nil }

// messageSender is the slice of the Telego bot API we use.
type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Telegram sends notifications to a single chat.
type Telegram struct {
	cfg    config.TelegramConfig
	bot    messageSender
	logger *logger.Logger
}

// NewTelegram creates a Telegram notifier from config.
func NewTelegram(cfg config.TelegramConfig, log *logger.Logger) (*Telegram, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	return &Telegram{cfg: cfg, bot: bot, logger: log}, nil
}

// Notify sends the message to the configured chat.
func (t *Telegram) Notify(ctx context.Context, message string) error {
	params := telego.SendMessageParams{
		ChatID: telego.ChatID{ID: t.cfg.ChatID},
		Text:   message,
	}

	if _, err := t.bot.SendMessage(ctx, &params); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	t.logger.Debug("sent telegram notification",
		logger.Field{Key: "chat_id", Value: t.cfg.ChatID})
	return nil
}

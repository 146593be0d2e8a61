package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tiksave-bot/domain/chat"
)

// Handler processes one inbound message
type Handler func(ctx context.Context, msg chat.Inbound) error

// Listener owns the long-poll update loop. Each inbound message is
// dispatched to the handler in its own goroutine, so one chat's
// pipeline never blocks another's.
type Listener struct {
	bot     *tgbotapi.BotAPI
	logger  zerolog.Logger
	timeout int
}

// NewListener creates a Listener over a connected bot
func NewListener(bot *tgbotapi.BotAPI, logger zerolog.Logger) *Listener {
	return &Listener{
		bot:     bot,
		logger:  logger,
		timeout: 30,
	}
}

// Run blocks until ctx is cancelled, feeding inbound messages to handler
func (l *Listener) Run(ctx context.Context, handler Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = l.timeout
	updates := l.bot.GetUpdatesChan(u)

	l.logger.Info().Str("username", l.bot.Self.UserName).Msg("listening for updates")

	for {
		select {
		case <-ctx.Done():
			l.bot.StopReceivingUpdates()
			// Drain remaining updates so the library's polling goroutine
			// can exit. An in-flight long poll would otherwise keep the
			// getUpdates session alive into the next run.
			for range updates {
			}
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			msg := update.Message
			if msg == nil || msg.Chat == nil {
				continue
			}

			text := strings.TrimSpace(msg.Text)
			if text == "" {
				text = strings.TrimSpace(msg.Caption)
			}
			if text == "" {
				continue
			}

			inbound := chat.Inbound{
				ChatID:    msg.Chat.ID,
				MessageID: msg.MessageID,
				Text:      text,
			}

			l.logger.Debug().
				Int64("chat_id", inbound.ChatID).
				Int("message_id", inbound.MessageID).
				Msg("inbound message")

			go func() {
				if err := handler(ctx, inbound); err != nil {
					l.logger.Error().Err(err).
						Int64("chat_id", inbound.ChatID).
						Msg("failed to handle message")
				}
			}()
		}
	}
}

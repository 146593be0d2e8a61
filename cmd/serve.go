package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiksave-bot/application/deliver"
	"tiksave-bot/application/resolve"
	"tiksave-bot/infrastructure/config"
	"tiksave-bot/infrastructure/fetch"
	"tiksave-bot/infrastructure/ffmpeg"
	"tiksave-bot/infrastructure/filesystem"
	"tiksave-bot/infrastructure/logging"
	"tiksave-bot/infrastructure/ops"
	"tiksave-bot/infrastructure/storage"
	"tiksave-bot/infrastructure/telegram"
	"tiksave-bot/infrastructure/thumbnail"
	"tiksave-bot/infrastructure/tikwm"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Run the bot against the Telegram API until interrupted.

The bot long-polls for messages, downloads the TikTok media each link
points at, and sends it back into the chat. The bot token is read from
the ` + config.EnvBotToken + ` environment variable (a .env file in the
working directory is picked up if present).

Example:
  BOT_TOKEN=123456:ABC-DEF tiksave-bot serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// A .env file is optional; the token may come from the real
	// environment
	_ = godotenv.Load()

	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; check %s", config.DefaultConfigPath)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	token, err := config.BotToken()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verify ffmpeg is available before going online
	deriver := ffmpeg.NewDeriver(ffmpeg.WithTimeout(cfg.Transcode.Timeout()))
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := deriver.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	store, err := storage.NewStore(cfg.Storage.TempDirectory, logger)
	if err != nil {
		return err
	}

	extractor := tikwm.NewClient(
		tikwm.WithBaseURL(cfg.API.BaseURL),
		tikwm.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
		tikwm.WithUserAgent(cfg.Fetch.UserAgent),
	)
	fetcher := fetch.NewFetcher(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout()}),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
	)

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	logger.Info().Str("username", bot.Self.UserName).Msg("authorized on Telegram")

	resolver := resolve.NewService(extractor, fetcher, deriver, filesystem.NewChecker(), store, cfg.Audio.Bitrate, logger)
	pipeline := deliver.NewService(telegram.NewMessenger(bot), resolver, thumbnail.NewExtractor(), store, logger)

	if interval := cfg.Storage.SweepInterval(); interval > 0 {
		sweeper := cron.New()
		_, err := sweeper.AddFunc(fmt.Sprintf("@every %s", interval), func() {
			removed, err := store.Sweep(cfg.Storage.SweepMaxAge())
			if err != nil {
				logger.Warn().Err(err).Msg("temp sweep failed")
				return
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("swept orphaned temp files")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule temp sweeper: %w", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	if cfg.Ops.ListenAddr != "" {
		opsServer := ops.NewServer(cfg.Ops.ListenAddr, Version)
		go func() {
			if err := opsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("ops server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := opsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("ops server shutdown failed")
			}
		}()
		logger.Info().Str("addr", cfg.Ops.ListenAddr).Msg("ops endpoint listening")
	}

	logger.Info().Str("temp_dir", store.Dir()).Msg("bot started, waiting for messages")

	listener := telegram.NewListener(bot, logger)
	listener.Run(ctx, pipeline.HandleMessage)

	logger.Info().Msg("bot stopped")
	return nil
}

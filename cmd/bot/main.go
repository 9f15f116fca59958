package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"media-downloader-bot/internal/bot"
	"media-downloader-bot/internal/common/config"
	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/features/admin"
	"media-downloader-bot/internal/features/delivery"
	"media-downloader-bot/internal/features/download"
	"media-downloader-bot/internal/features/user/repository"
	filerepo "media-downloader-bot/internal/features/user/repository/file"
	redisrepo "media-downloader-bot/internal/features/user/repository/redis"
	userservice "media-downloader-bot/internal/features/user/service"
	botserver "media-downloader-bot/internal/http"
	redisplatform "media-downloader-bot/internal/platform/redis"
	"media-downloader-bot/internal/platform/storage"
	"media-downloader-bot/internal/platform/telegram"
	"media-downloader-bot/internal/platform/transfersh"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing mandatory configuration is the one startup-fatal error.
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Init("media-downloader-bot", cfg.Debug)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to authorize bot")
	}
	logger.Info().Str("username", api.Self.UserName).Msg("bot authorized")

	repo, err := buildRepository(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize user store")
	}

	gw := telegram.NewGateway(api)
	users := userservice.New(repo)
	admins := admin.New(cfg.Telegram.AdminIDs, users, gw)

	fetcher := download.NewYTDLPFetcher()
	if err := fetcher.CheckBinary(); err != nil {
		logger.Fatal().Err(err).Msg("media fetcher unavailable")
	}

	var store delivery.ObjectStore
	if cfg.S3Configured() {
		s3, err := storage.NewClient(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("object storage init failed, continuing without it")
		} else {
			store = s3
			logger.Info().Str("bucket", cfg.S3.Bucket).Msg("object storage initialized")
		}
	}

	resolver := delivery.NewResolver(gw, store, transfersh.NewClient(), cfg.Telegram.MaxDirectBytes)
	controller := bot.NewController(gw, users, admins, fetcher, resolver, cfg.Download.FetchTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Webhook.Base != "" {
		runWebhook(ctx, cfg, api, controller)
	} else {
		runPolling(ctx, api, controller)
	}

	logger.Info().Msg("waiting for in-flight downloads")
	controller.WaitIdle()
	logger.Info().Msg("bot stopped")
}

func buildRepository(cfg *config.Config) (repository.UserRepository, error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := redisplatform.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return redisrepo.New(client), nil
	default:
		return filerepo.New(cfg.Store.DataFile)
	}
}

// botID is the numeric prefix of the token, used as the final webhook path
// segment.
func botID(token string) string {
	return strings.SplitN(token, ":", 2)[0]
}

func runWebhook(ctx context.Context, cfg *config.Config, api *tgbotapi.BotAPI, controller *bot.Controller) {
	path := botserver.WebhookPath(cfg.Webhook.SecretPath, botID(cfg.Telegram.BotToken))
	webhookURL := strings.TrimRight(cfg.Webhook.Base, "/") + path

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid webhook URL")
	}
	if _, err := api.Request(wh); err != nil {
		logger.Fatal().Err(err).Msg("failed to register webhook")
	}
	logger.Info().Str("url", webhookURL).Msg("webhook registered")

	router := botserver.NewRouter(cfg.Webhook.SecretPath, botID(cfg.Telegram.BotToken), controller.HandleUpdate, cfg.Debug)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn().Err(err).Msg("failed to delete webhook")
	}
}

func runPolling(ctx context.Context, api *tgbotapi.BotAPI, controller *bot.Controller) {
	// Webhooks and polling are mutually exclusive on the Bot API side.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn().Err(err).Msg("failed to clear webhook before polling")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	logger.Info().Msg("long polling started")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update := <-updates:
			controller.HandleUpdate(ctx, update)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"palm-bot/config"
	telegram "palm-bot/internal/api"
	"palm-bot/internal/api/httpapi"
	"palm-bot/internal/container"
	"palm-bot/internal/domain/port"
	"palm-bot/internal/infrastructure/palmistry"
	"palm-bot/internal/infrastructure/storage"
	"palm-bot/internal/infrastructure/vision"
	"palm-bot/internal/logger"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// Создаём хранилище сессий
	sessionRepo, closeRepo, err := newSessionRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Собираем сервисы приложения
	appContainer := container.New(
		sessionRepo,
		palmistry.NewReader(cfg.AnalysisDelay, nil),
		vision.NewPreviewer(cfg.PreviewMaxSide, log),
		log,
	)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.WizardService, log)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		g.Go(func() error {
			log.Info("Bot is running...")
			return bot.Run(ctx)
		})
	}

	if cfg.HTTPAddr != "" {
		server := httpapi.NewServer(appContainer.WizardService, log)
		g.Go(func() error {
			return server.Run(ctx, cfg.HTTPAddr)
		})
	}

	err = g.Wait()
	log.Info("Stopped", zap.Error(err))
	return err
}

// newSessionRepository выбирает хранилище по конфигурации
func newSessionRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.SessionRepository, func(), error) {
	if cfg.SessionStore != config.StoreRedis {
		log.Info("Using in-memory session store")
		return storage.NewMemorySessionRepository(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Info("Using redis session store", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.SessionTTL))
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing redis client", zap.Error(err))
		}
	}
	return storage.NewRedisSessionRepository(client, cfg.SessionTTL), closeFn, nil
}

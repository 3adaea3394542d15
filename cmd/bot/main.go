package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holidaze/internal/api"
	"holidaze/internal/bot"
	"holidaze/internal/config"
	"holidaze/internal/events"
	"holidaze/internal/logging"
	"holidaze/internal/metrics"
	"holidaze/internal/models"
	"holidaze/internal/repository"
	"holidaze/internal/service"
	"holidaze/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "bot-main")

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create export directory")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, store := initStore(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Key, api.Options{
		Timeout: cfg.API.Timeout,
		RPS:     cfg.API.RPS,
		Burst:   cfg.API.Burst,
	}, &logger)

	eventBus := events.NewEventBus()
	eventLogger := logging.Component(baseLogger, "events")
	events.Observe(eventBus, &eventLogger)

	authService := service.NewAuthService(client, store, eventBus, &logger)
	stateService := service.NewStateService(store, &logger)
	listingService := service.NewListingService(client, &logger)
	bookingService := service.NewBookingService(client, eventBus, &logger)
	venueService := service.NewVenueService(client, eventBus, &logger)
	profileService := service.NewProfileService(client, authService, eventBus, &logger)

	return startBot(ctx, cfg, eventBus,
		authService, stateService, listingService, bookingService, venueService, profileService, &logger)
}

// initStore wires the session and state store: Redis when configured,
// with an in-memory fallback behind the failover wrapper so the bot
// survives a Redis outage at the cost of durability.
func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverStore) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
	}

	primary := repository.NewRedisStore(redisClient, cfg.Session.TTL, cfg.Session.StateTTL)
	fallback := repository.NewMemoryStore()
	return redisClient, repository.NewFailoverStore(primary, fallback, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Int("port", port).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	eventBus *events.EventBus,
	authService *service.AuthService,
	stateService *service.StateService,
	listingService *service.ListingService,
	bookingService *service.BookingService,
	venueService *service.VenueService,
	profileService *service.ProfileService,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create bot API")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	tgService := service.NewTelegramService(bot.NewBotWrapper(botAPI))

	retryPolicy := worker.RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
	}
	notifier := worker.NewNotifyWorker(tgService, retryPolicy, models.ToastTTLSeconds*time.Second, logger)
	go notifier.Start(ctx)

	telegramBot, err := bot.NewBot(
		tgService, cfg, stateService, authService,
		listingService, bookingService, venueService, profileService,
		notifier, eventBus, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create bot")
		return err
	}

	logger.Info().Msg("Bot started...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

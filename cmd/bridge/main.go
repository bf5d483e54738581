package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MichalMitros/catalog-bridge/cmd/bridge/config"
	"github.com/MichalMitros/catalog-bridge/internal/auth"
	"github.com/MichalMitros/catalog-bridge/internal/connector"
	"github.com/MichalMitros/catalog-bridge/internal/handler"
	"github.com/MichalMitros/catalog-bridge/internal/httpapi"
	"github.com/MichalMitros/catalog-bridge/internal/images"
	"github.com/MichalMitros/catalog-bridge/internal/importer"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/metrics"
	"github.com/MichalMitros/catalog-bridge/internal/normalizer"
	"github.com/MichalMitros/catalog-bridge/internal/platform/rabbitmq"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage"
	"github.com/MichalMitros/catalog-bridge/internal/reconciler"
	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	tokenKeyPrefix  = "catalog-bridge:token:"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatal().
			Err(err).
			Msg("can't load .env file")
	}

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	sources, err := config.LoadSources(cfg.SourcesFile, cfg.HTTPTimeout)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("file", cfg.SourcesFile).
			Msg("can't load sources")
	}

	mappings, err := loadMappings(cfg.MappingsFile)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't load mappings")
	}

	tokens, redisClient, err := tokenCache(cfg.RedisURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Redis connection")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	if err := storage.Migrate(ctx, pgDB); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't migrate database")
	}

	store := storage.NewPostgres(pgDB)
	if err := store.EnsureAttributes(ctx, normalizer.StandardAttributes); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't register attributes")
	}

	registry := connector.NewRegistry(sources, mappings, cfg.CacheDir, tokens, &logger)
	enabled := registry.Enabled()
	m := metrics.New()

	imp := importer.NewImporter(
		importer.ConnectorFunc(func(sourceID string, maxAge time.Duration) (importer.Connector, error) {
			conn, err := registry.Connector(sourceID, maxAge)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}),
		reconciler.NewEngine(store, images.NewImporter(store, &logger), normalizer.New(mappings), &logger),
		store,
		cfg.ImportOptions(),
		&logger,
		importer.WithRecorder(m),
		importer.WithPrefetchTimeout(cfg.PrefetchTimeout),
	)

	// one-shot mode: bridge import|prefetch [source]
	if len(os.Args) > 1 {
		han := handler.NewHandler(nil, imp, enabled, &logger)
		if err := runOnce(ctx, han, os.Args[1:]); err != nil {
			logger.Fatal().
				Err(err).
				Msg("command failed")
		}
		return
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	consumer, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	if err := consumer.Bind(cfg.RabbitMQ.Queue, cfg.RabbitMQ.CommandRoutingKey); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't bind commands queue")
	}

	publisher, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	han := handler.NewHandler(consumer, imp, enabled, &logger)

	// start consuming and handling messages
	if err := han.Start(ctx, cfg.RabbitMQ.Queue); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	cmdr := commander.NewImportCommander(commander.NewRabbitMQSender(publisher, cfg.RabbitMQ.CommandRoutingKey))
	api := httpapi.NewServer(cmdr, imp, enabled, &logger, httpapi.WithMetrics(m.Handler(), m))
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	logger.Info().
		Strs("sources", enabled).
		Str("addr", cfg.HTTPAddr).
		Msg("catalog bridge up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
	case <-groupCtx.Done():
		logger.Error().
			Err(context.Cause(groupCtx)).
			Msg("http server failed")
	}
	cancel()

	logger.Info().Msg("graceful shutdown start")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().
			Err(err).
			Msg("can't shutdown http server")
	}
	if err := group.Wait(); err != nil {
		logger.Error().
			Err(err).
			Msg("http server failed")
	}

	// wait for consumer to finish
	<-consumer.Done()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(3)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	go func() {
		defer wg.Done()
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Redis connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}

func loadMappings(path string) (mapping.Mappings, error) {
	if path == "" {
		return mapping.Default()
	}
	return mapping.LoadFile(path)
}

// tokenCache returns redis token cache when url is provided and in-memory cache otherwise.
func tokenCache(redisURL string) (auth.TokenCache, *redis.Client, error) {
	if redisURL == "" {
		return auth.NewMemoryCache(), nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	return auth.NewRedisCache(client, tokenKeyPrefix, auth.DefaultTokenTTL), client, nil
}

func runOnce(ctx context.Context, han *handler.RMQHandler, args []string) error {
	cmd := commander.ImportCommand{Action: args[0]}
	if len(args) > 1 {
		cmd.SourceID = args[1]
	}

	msg, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	return han.Handle(ctx, msg)
}

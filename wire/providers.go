package wire

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/energeticlee/heist-clone/config"
	coreredis "github.com/energeticlee/heist-clone/db/redis"
	"github.com/energeticlee/heist-clone/events/kafka"
	"github.com/energeticlee/heist-clone/feed"
	"github.com/energeticlee/heist-clone/history"
	"github.com/energeticlee/heist-clone/logging"
	"github.com/energeticlee/heist-clone/provider"
	"github.com/energeticlee/heist-clone/server"
	"github.com/energeticlee/heist-clone/store"
	"github.com/energeticlee/heist-clone/store/redisstore"
)

// ProvideLogger provides a zerolog.Logger
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Logging)
}

// ProvideRedisClient provides a Redis client
func ProvideRedisClient(cfg *config.Config) (*coreredis.Client, error) {
	return coreredis.New(cfg.Redis)
}

// ProvideStore provides the Redis-backed record store
func ProvideStore(client *coreredis.Client) store.Store {
	return redisstore.New(client)
}

// ProvideRecorder provides the episode recorder; without a DSN it is a no-op
func ProvideRecorder(cfg *config.Config) (history.Recorder, error) {
	if cfg.Postgres.DSN == "" {
		return history.Noop{}, nil
	}
	return history.NewPostgres(cfg.Postgres.DSN)
}

// ProvideProducer provides the Kafka event producer (nil without brokers)
func ProvideProducer(cfg *config.Config, logger zerolog.Logger) (*kafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	return kafka.NewProducerWithConfig(kafka.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Logger:  logger,
	})
}

// ProvideHub provides the outcome feed hub
func ProvideHub() *feed.Hub {
	return feed.NewHub(64)
}

// ProvideStakeService provides the lifecycle service
func ProvideStakeService(
	cfg *config.Config,
	logger zerolog.Logger,
	st store.Store,
	recorder history.Recorder,
	producer *kafka.Producer,
	hub *feed.Hub,
) *server.StakeService {
	opts := server.StakeServiceOptions{
		Store:          st,
		Metadata:       provider.NewHTTPMetadataProvider(cfg, logger),
		Custody:        provider.NewHTTPCustodyProvider(cfg, logger),
		Recorder:       recorder,
		Hub:            hub,
		Logger:         logger,
		EventTopic:     cfg.Kafka.EventTopic,
		StakeAuthority: cfg.Program.StakeAuthority,
		PoolAccount:    cfg.Program.PoolAccount,
	}
	if producer != nil {
		opts.Producer = producer
	}
	return server.NewStakeService(opts)
}

// ProvideApp provides the main application
func ProvideApp(cfg *config.Config, logger zerolog.Logger, svc *server.StakeService, hub *feed.Hub) *server.App {
	return server.New(server.Options{
		Config:       cfg,
		Logger:       logger,
		StakeService: svc,
		Hub:          hub,
	})
}

// ConfigSet is the wire provider set for configuration
var ConfigSet = wire.NewSet(
	config.Load,
)

// LoggingSet is the wire provider set for logging
var LoggingSet = wire.NewSet(
	ProvideLogger,
)

// StorageSet is the wire provider set for Redis and the record store
var StorageSet = wire.NewSet(
	ProvideRedisClient,
	ProvideStore,
	ProvideRecorder,
)

// EventSet is the wire provider set for eventing
var EventSet = wire.NewSet(
	ProvideProducer,
	ProvideHub,
)

// ServerSet is the wire provider set for the service and server
var ServerSet = wire.NewSet(
	ProvideStakeService,
	ProvideApp,
)

// FullSet includes all providers
var FullSet = wire.NewSet(
	LoggingSet,
	StorageSet,
	EventSet,
	ServerSet,
)

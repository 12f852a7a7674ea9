package main

import (
	assethandler "circulation/internal/assets/handler"
	assetservice "circulation/internal/assets/service"
	assetvalidator "circulation/internal/assets/validator"
	"circulation/internal/circulation/events"
	"circulation/internal/circulation/handler"
	"circulation/internal/circulation/service"
	"circulation/internal/circulation/validator"
	"circulation/internal/store"
	"circulation/internal/store/mongostore"
	"circulation/internal/store/pgstore"
	"circulation/pkg/app"
	"circulation/pkg/config"
	"circulation/pkg/kafka"
	kafka_config "circulation/pkg/kafka/config"
	kafka_middleware "circulation/pkg/kafka/middleware"
)

const ServiceName = "circulation"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Circulation service")

	cfg.SetStore()
	cfg.SetRedis()

	st := initStore(cfg)
	publisher := initPublisher(cfg)

	assetService := assetservice.NewAssetService(st, assetvalidator.NewAssetValidator(cfg.Log), cfg)
	circulationService := service.NewCirculationService(st, publisher, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(st,
		assethandler.NewAssetHandler(assetService, cfg.Log),
		handler.NewCirculationHandler(circulationService, validator.NewCardValidator(cfg.Log), cfg.Log),
	)
	serverApp.OnShutdown("events publisher", publisher.Close)
	serverApp.Run()
}

func initStore(cfg *config.Config) store.Store {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		cfg.Log.Info("Circulation store initialized", "driver", cfg.StoreDriver)
		return pgstore.New(cfg.Client.Postgres)
	default:
		cfg.Log.Info("Circulation store initialized", "driver", cfg.StoreDriver, "database", cfg.MongoDatabaseName)
		return mongostore.NewStore(cfg)
	}
}

// initPublisher connects the event stream when brokers are configured.
// Without brokers, commands run and their events are dropped.
func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled() {
		cfg.Log.Warn("KAFKA_BROKERS not set, circulation events are disabled")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers...)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", cfg.EventsTopic)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Circulation events enabled", "topic", cfg.EventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}

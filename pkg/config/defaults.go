package config

import "time"

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"

	DefaultEnvFile = ".env"

	DefaultStoreDriver = StoreDriverMongo

	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "circulation"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPostgresDSN         = "host=localhost user=postgres password=postgres dbname=circulation port=5432 sslmode=disable"
	DefaultPostgresConnTimeout = 10 * time.Second

	DefaultRedisConnTimeout = 5 * time.Second

	DefaultEventsTopic = "circulation.events"

	DefaultPort = "8080"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit  = 100
	FallbackPaginationLimit = 10
)

package main

import (
	"context"
	"time"

	mongoMigration "circulation/internal/migrations/mongo"
	"circulation/internal/store/pgstore"
	"circulation/pkg/config"
)

const JobName = "circulation-migration"

const migrationTimeout = 120 * time.Second

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetStore()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "driver", cfg.StoreDriver)

	var err error
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		err = pgstore.Migrate(cfg.Client.Postgres.WithContext(ctx))
	default:
		err = mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	}
	if err != nil {
		cfg.Log.Error("Migration failed", "driver", cfg.StoreDriver, "error", err)
		cancel()
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration aborted")
	}

	cfg.Log.Info("Migration completed successfully", "driver", cfg.StoreDriver)
}

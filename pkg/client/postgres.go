package client

import (
	"time"

	"circulation/pkg/db/postgres"
	"circulation/pkg/logger"
)

func (c *Client) SetPostgres(log *logger.Logger, dsn string, connTimeout time.Duration) {
	db, err := postgres.Open(dsn, connTimeout)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", "error", err)
	}

	log.Info("Successfully connected to Postgres")
	c.Postgres = db
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(defaultConnTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	// Connect is lazy; ping with retries so startup fails fast on a bad URI
	// instead of on the first command.
	for i := 0; i < defaultMaxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

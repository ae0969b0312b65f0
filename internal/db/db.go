package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrMissingConfig = errors.New("missing MongoDB URI or database name")

type Config struct {
	URI             string
	DBName          string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	ConnTimeout     time.Duration
}

// ClientOptions maps the config onto driver options.
func (c Config) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxConnIdleTime).
		SetConnectTimeout(c.ConnTimeout)
}

type DBConnection struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the MongoDB client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*DBConnection, error) {
	if cfg.URI == "" || cfg.DBName == "" {
		return nil, ErrMissingConfig
	}

	client, err := mongo.Connect(ctx, cfg.ClientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &DBConnection{
		Client: client,
		DB:     client.Database(cfg.DBName),
	}, nil
}

func (conn *DBConnection) GetCollection(collectionName string) *mongo.Collection {
	return conn.DB.Collection(collectionName)
}

func (conn *DBConnection) Ping(ctx context.Context) error {
	return conn.Client.Ping(ctx, nil)
}

func (conn *DBConnection) Disconnect(ctx context.Context) error {
	if conn.Client == nil {
		return nil
	}
	if err := conn.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

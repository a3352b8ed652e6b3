// Package mongo implements the store ports on MongoDB. Documents use the
// domain UUIDs as string _id values.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Store groups the repositories backed by one database.
type Store struct {
	Users    *UserRepository
	Products *ProductRepository
	Orders   *OrderRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db),
	}
}

// EnsureIndexes creates the indexes every collection relies on, including the
// unique username index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := s.Products.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("products indexes: %w", err)
	}
	if err := s.Orders.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}
	return nil
}

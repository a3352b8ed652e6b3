// Package app assembles the HTTP service from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/store-api/internal/api"
	"github.com/99minutos/store-api/internal/api/handler"
	"github.com/99minutos/store-api/internal/core/ports"
	"github.com/99minutos/store-api/internal/core/service"
	"github.com/99minutos/store-api/internal/infrastructure/config"
	"github.com/99minutos/store-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/store-api/internal/infrastructure/db/postgres"
	"github.com/99minutos/store-api/internal/infrastructure/db/redis"
	"github.com/99minutos/store-api/internal/infrastructure/ratelimit"
	"github.com/99minutos/store-api/internal/infrastructure/security/password"
	"github.com/99minutos/store-api/internal/infrastructure/security/token"
)

// Runtime is a fully wired service. Close releases every connection opened
// by Build.
type Runtime struct {
	Echo *echo.Echo

	closers []func(context.Context) error
}

func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stores struct {
	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
}

// Build opens the configured store and login limiter and returns the router
// serving the API. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{}
	ok := false
	defer func() {
		if !ok {
			_ = rt.Close(ctx)
		}
	}()

	readiness := map[string]handler.Pinger{}

	st, err := openStore(ctx, cfg, log, rt, readiness)
	if err != nil {
		return nil, err
	}

	limiter, err := openLimiter(ctx, cfg, log, rt, readiness)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(cfg.Auth.PasswordAlgorithm, password.Options{
		BcryptCost: cfg.Auth.BcryptCost,
		Argon2id:   password.DefaultArgon2idParams(),
	})
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	codec, err := token.NewCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	authService := service.NewAuthService(st.users, hasher, codec, cfg.Auth.TokenTTL(), log)
	userService := service.NewUserService(st.users, hasher, log)
	productService := service.NewProductService(st.products, log)
	orderService := service.NewOrderService(st.orders, st.products, log)

	rt.Echo = api.NewRouter(api.Dependencies{
		Logger:    log,
		Auth:      authService,
		Users:     userService,
		Products:  productService,
		Orders:    orderService,
		Limiter:   limiter,
		Readiness: readiness,
	})

	log.Info().
		Str("store", cfg.StoreDriver).
		Str("password_algorithm", hasher.Algorithm()).
		Dur("token_ttl", cfg.Auth.TokenTTL()).
		Msg("application wired")
	ok = true
	return rt, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, rt *Runtime, readiness map[string]handler.Pinger) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return stores{}, err
		}
		rt.closers = append(rt.closers, client.Disconnect)
		readiness["mongo"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		})

		store := mongo.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return stores{}, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return stores{users: store.Users, products: store.Products, orders: store.Orders}, nil

	default:
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return stores{}, err
		}
		rt.closers = append(rt.closers, func(context.Context) error { return db.Close() })
		readiness["postgres"] = handler.PingFunc(db.PingContext)

		if cfg.Postgres.RunMigrations {
			if err := postgres.RunMigrations(ctx, db); err != nil {
				return stores{}, err
			}
			log.Info().Msg("database migrations applied")
		}
		log.Info().Msg("connected to postgres")
		return stores{
			users:    postgres.NewUserRepository(db),
			products: postgres.NewProductRepository(db),
			orders:   postgres.NewOrderRepository(db),
		}, nil
	}
}

// openLimiter prefers the shared Redis counter so every replica sees the same
// attempts; without REDIS_ADDR the limit is per process.
func openLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger, rt *Runtime, readiness map[string]handler.Pinger) (ports.LoginLimiter, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-memory login limiter")
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow), nil
	}

	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func(context.Context) error { return client.Close() })
	readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return redis.NewLoginLimiter(client, cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow), nil
}

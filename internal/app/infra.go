package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Chat-Global/accounts-service/internal/config"
	"github.com/Chat-Global/accounts-service/internal/db"
	"github.com/Chat-Global/accounts-service/internal/logger"
	"github.com/Chat-Global/accounts-service/internal/redis"

	_ "github.com/lib/pq"
)

// Infra holds the backing connections the configured backend needs.
// Only the relevant ones are opened.
type Infra struct {
	SQL   *sql.DB
	Mongo *mongo.Client
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.Backend == config.BackendLocal && cfg.LocalDriver == config.DriverPostgres {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := db.RunMigration(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migration: %w", err)
		}
		infra.SQL = sqlDB
		logger.Info("postgres ready", nil)
	}

	if cfg.Backend == config.BackendLocal && cfg.LocalDriver == config.DriverMongo {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		infra.Mongo = client
		logger.Info("mongo ready", nil)
	}

	if cfg.Backend == config.BackendFederated && cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		infra.Redis = redisClient
		logger.Info("redis ready", nil)
	}

	return infra, nil
}

func (i *Infra) close(ctx context.Context) error {
	if i.SQL != nil {
		if err := i.SQL.Close(); err != nil {
			return err
		}
	}
	if i.Mongo != nil {
		if err := i.Mongo.Disconnect(ctx); err != nil {
			return err
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			return err
		}
	}
	return nil
}

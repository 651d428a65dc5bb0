package redis_client

import (
	"context"

	"github.com/adjust/rmq/v5"
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const connectionTag = "blindroute"

func Connect(cfg config.RedisConfig) error {
	options := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.Database,
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}

	Client = redis.NewClient(options)

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	QueueConnection, err = rmq.OpenConnectionWithRedisClient(connectionTag, Client, nil)
	if err != nil {
		return err
	}

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Connected to redis")

	return nil
}

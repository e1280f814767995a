package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	zlog "github.com/rs/zerolog/log"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient connects to redis for the listing caches. An unreachable
// redis is logged but not fatal: the cache layer skips a nil client and the
// API keeps answering from the database.
func NewRedisClient(config RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Warn().Err(err).Msg("redis unreachable, caching disabled")
		rdb.Close()
		return nil
	}

	zlog.Info().Str("addr", rdb.Options().Addr).Msg("redis connected")
	return rdb
}

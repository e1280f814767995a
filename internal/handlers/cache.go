package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	zlog "github.com/rs/zerolog/log"
)

const (
	InsumCacheKey   = "catalog:insums"
	ProductCacheKey = "catalog:products"
	CacheTTLShort   = 5 * time.Minute
	CacheTTLMedium  = 30 * time.Minute
)

// A nil client disables caching; handlers fall through to the database.

func cacheGet(ctx context.Context, rdb *redis.Client, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			zlog.Warn().Err(err).Str("key", key).Msg("redis GET failed, falling back to DB")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

func cacheSet(ctx context.Context, rdb *redis.Client, key string, v interface{}, ttl time.Duration) {
	if rdb == nil {
		return
	}
	jsonData, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("redis SET failed")
	}
}

func cacheDel(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, keys...)
}

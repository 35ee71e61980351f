package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisMaxRetries = 5
	redisRetryDelay = 5 * time.Second
)

// InitRedis connects to redis, retrying the ping a few times before giving up.
func InitRedis(ctx context.Context, cfg *Config, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:      "tcp",
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	var err error
	for i := 0; i < redisMaxRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Warn().Err(err).Msgf("failed to connect to redis (attempt %d/%d)", i+1, redisMaxRetries)

		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(redisRetryDelay):
		}
	}
	client.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", redisMaxRetries, err)
}

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/neurozen/neurozen/config"
	"github.com/neurozen/neurozen/internal/bootstrap"
	"github.com/redis/go-redis/v9"
)

// connectRedisOnly returns a connected Redis client, or nil when no Redis
// configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectRedisOnly(logger *slog.Logger, cfg *config.AppConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(&cfg.Redis) {
		logger.Info("no redis configuration detected; skipping redis connection")
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

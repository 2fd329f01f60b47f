package app

import (
	"context"
	"time"

	"github.com/agilsa/GorbyJump/internal/config"
	"github.com/agilsa/GorbyJump/internal/logger"
	"github.com/agilsa/GorbyJump/internal/session"

	goredis "github.com/redis/go-redis/v9"
)

// setupSessionStore picks the session backend. Sessions are in-memory
// unless a Redis address is configured; either way the client-side
// mirror, not the session, is the durability boundary.
func setupSessionStore(ctx context.Context, cfg config.Config) (session.Store, func() error, error) {
	if cfg.RedisAddr == "" {
		logger.Info("session store: memory", nil)
		return session.NewMemoryStore(), nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, nil, err
	}

	logger.Info("session store: redis", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return session.NewRedisStore(client), client.Close, nil
}

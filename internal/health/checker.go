package health

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pinger is anything with a connectivity probe, such as the platform client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probes implements Checker over the service's real dependencies.
type Probes struct {
	Redis    *redis.Client
	Platform Pinger
}

// PingRedis probes the Redis connection.
func (p Probes) PingRedis(ctx context.Context, timeout time.Duration) error {
	if p.Redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}

// PingPlatform probes the upstream platform API.
func (p Probes) PingPlatform(ctx context.Context, timeout time.Duration) error {
	if p.Platform == nil {
		return errors.New("platform not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Platform.Ping(ctx)
}

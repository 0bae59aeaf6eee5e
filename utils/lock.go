package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

// releaseScript deletes the key only when it still carries the caller's
// token, so a lease that outlived its TTL never releases someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type LockConfig struct {
	Ttl           time.Duration `env:"TTL" envDefault:"30s"`
	MaxAttempts   int           `env:"MAX_ATTEMPTS" envDefault:"200"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"50ms"`
}

// RedisLock is a named mutual-exclusion primitive shared by every process of
// the service. Acquire spins with a bounded attempt count, never forever.
type RedisLock struct {
	client *redis.Client
	config LockConfig
}

func NewRedisLock(client *redis.Client, config LockConfig) *RedisLock {
	return &RedisLock{client: client, config: config}
}

// Lease is proof of a single successful acquisition. Release is safe to call
// from a defer on every path: it is a no-op once the lease is gone.
type Lease struct {
	lock  *RedisLock
	name  string
	token string
	held  bool
}

func (l *RedisLock) TryAcquire(ctx context.Context, name string) (*Lease, error) {
	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return nil, err
	}

	ok, err := l.client.SetNX(ctx, name, hex.EncodeToString(token), l.config.Ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &Lease{lock: l, name: name, token: hex.EncodeToString(token), held: true}, nil
}

func (l *RedisLock) Acquire(ctx context.Context, name string) (*Lease, error) {
	for attempt := 0; attempt < l.config.MaxAttempts; attempt++ {
		lease, err := l.TryAcquire(ctx, name)
		if err != nil {
			return nil, err
		}
		if lease != nil {
			return lease, nil
		}

		select {
		case <-ctx.Done():
			return nil, System("lock acquisition cancelled: " + name)
		case <-time.After(l.config.RetryInterval):
		}
	}

	return nil, System("could not acquire lock: " + name)
}

func (lease *Lease) Held() bool {
	return lease != nil && lease.held
}

func (lease *Lease) Release(ctx context.Context) error {
	if !lease.Held() {
		return nil
	}
	lease.held = false

	return releaseScript.Run(ctx, lease.lock.client, []string{lease.name}, lease.token).Err()
}

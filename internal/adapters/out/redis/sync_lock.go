package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if the caller still holds it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type SyncLock struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

func NewSyncLock(client goredis.UniversalClient, logger *slog.Logger) *SyncLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncLock{client: client, logger: logger.With("component", "redis-sync-lock")}
}

func (l *SyncLock) TryLock(ctx context.Context, name string, ttl time.Duration) (func(context.Context), bool, error) {
	key := fmt.Sprintf(keyLock, name)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	unlock := func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.WarnContext(ctx, "release lock", "lock", name, "error", err)
		}
	}
	return unlock, true, nil
}

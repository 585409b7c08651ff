// Package redis keeps short-lived coordination state: Idempotency-Key claims for order creation
// and the lease that keeps one mirror sync running across replicas.
package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// idem:order:create:{key} -> order id, or inProgress while the first request runs
	keyIdemOrderCreate = "idem:order:create:%s"

	// lock:{name} -> holder token
	keyLock = "lock:%s"
)

const (
	TTLIdempotency = 24 * time.Hour

	// ttlInProgress bounds how long a crashed request blocks its key.
	ttlInProgress = 2 * time.Minute

	inProgress = "in-progress"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(cfg Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

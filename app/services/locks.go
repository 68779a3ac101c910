package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockKeeper serializes operations that target the same backup_id. A delete
// racing a restore on one identifier is the only intrinsic hazard here; the
// in-process keyed mutex covers a single portal instance and the optional
// redis lease extends the guarantee across instances sharing one store.
type lockKeeper struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	rdb   *redis.Client
}

func newLockKeeper(rdb *redis.Client) *lockKeeper {
	return &lockKeeper{locks: make(map[string]*sync.Mutex), rdb: rdb}
}

func (k *lockKeeper) forKey(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// acquire blocks until the caller holds key, then returns the release func.
func (k *lockKeeper) acquire(ctx context.Context, key string) (func(), error) {
	local := k.forKey(key)
	local.Lock()
	if k.rdb == nil {
		return local.Unlock, nil
	}

	leaseKey := "staffdesk:backup-lock:" + key
	for {
		ok, err := k.rdb.SetNX(ctx, leaseKey, "held", 30*time.Second).Result()
		if err != nil {
			local.Unlock()
			return nil, fmt.Errorf("acquire backup lease: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			local.Unlock()
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return func() {
		_ = k.rdb.Del(context.Background(), leaseKey).Err()
		local.Unlock()
	}, nil
}

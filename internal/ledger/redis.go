package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

const redisScanBatch = 200

// RedisLedger keeps markers as Redis keys created with SETNX, which carries
// the same first-writer-wins guarantee as an exclusive file create. Keys
// never expire: a success marker is permanent proof-of-send.
type RedisLedger struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisLedger creates a ledger over the given Redis client.
func NewRedisLedger(client redis.UniversalClient, keyPrefix string) *RedisLedger {
	return &RedisLedger{client: client, keyPrefix: keyPrefix}
}

var _ core.CommsLedger = (*RedisLedger)(nil)

func (l *RedisLedger) key(flag model.CommsFlag) string {
	return l.keyPrefix + flag.Name()
}

// CreateIfAbsent atomically creates the marker key via SETNX.
func (l *RedisLedger) CreateIfAbsent(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	created, err := l.client.SetNX(ctx, l.key(flag), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("setnx marker %s: %w", flag.Name(), err)
	}
	return created, nil
}

// Exists reports whether the marker key is present.
func (l *RedisLedger) Exists(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	n, err := l.client.Exists(ctx, l.key(flag)).Result()
	if err != nil {
		return false, fmt.Errorf("exists marker %s: %w", flag.Name(), err)
	}
	return n > 0, nil
}

// Remove deletes the marker key, reporting whether it existed.
func (l *RedisLedger) Remove(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	n, err := l.client.Del(ctx, l.key(flag)).Result()
	if err != nil {
		return false, fmt.Errorf("del marker %s: %w", flag.Name(), err)
	}
	return n > 0, nil
}

// List enumerates markers for a job item by scanning the key prefix.
func (l *RedisLedger) List(ctx context.Context, jobItemID int64) ([]model.CommsFlag, error) {
	var (
		out    []model.CommsFlag
		cursor uint64
	)
	pattern := l.keyPrefix + "*"
	for {
		keys, next, err := l.client.Scan(ctx, cursor, pattern, redisScanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan markers: %w", err)
		}
		for _, key := range keys {
			flag, err := model.ParseFlagName(key[len(l.keyPrefix):])
			if err != nil {
				continue
			}
			if flag.JobItemID == jobItemID {
				out = append(out, flag)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"academy/metrics"
	"academy/progress"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CachedSource is a read-through redis cache in front of a SnapshotSource.
// A nil redis client turns it into a pass-through.
type CachedSource struct {
	source SnapshotSource
	rdb    *redis.Client
	ttl    time.Duration
}

func NewCachedSource(source SnapshotSource, rdb *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, rdb: rdb, ttl: ttl}
}

func snapshotKey(teamID uint) string {
	return fmt.Sprintf("snapshot:team:%d", teamID)
}

func (c *CachedSource) LoadSnapshot(ctx context.Context, teamID uint) (progress.Snapshot, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return c.source.LoadSnapshot(ctx, teamID)
	}

	key := snapshotKey(teamID)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snapshot progress.Snapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			metrics.CacheHits.Inc()
			return snapshot, nil
		}
		logrus.WithField("key", key).Warn("dropping unreadable cached snapshot")
	case !errors.Is(err, redis.Nil):
		logrus.WithError(err).Warn("snapshot cache read failed")
	}
	metrics.CacheMisses.Inc()

	snapshot, err := c.source.LoadSnapshot(ctx, teamID)
	if err != nil {
		return snapshot, err
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			logrus.WithError(err).Warn("snapshot cache write failed")
		}
	}
	return snapshot, nil
}

// Invalidate removes the cached snapshot of a team
func (c *CachedSource) Invalidate(ctx context.Context, teamID uint) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, snapshotKey(teamID)).Err()
}

package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"academy/progress"

	"github.com/redis/go-redis/v9"
)

// Banner identifies one review banner: the approved and rejected banners of a stage are distinct
type Banner struct {
	StageID uint
	Kind    progress.NotificationKind
}

func bannerOf(n progress.Notification) Banner {
	return Banner{StageID: n.StageID, Kind: n.Kind}
}

// member encodes a banner as a redis set member, e.g. "approved:2"
func (b Banner) member() string {
	return fmt.Sprintf("%s:%d", b.Kind, b.StageID)
}

func parseBanner(member string) (Banner, bool) {
	kind, id, found := strings.Cut(member, ":")
	if !found {
		return Banner{}, false
	}
	stageID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return Banner{}, false
	}
	return Banner{StageID: uint(stageID), Kind: progress.NotificationKind(kind)}, true
}

// DismissalStore keeps the review banners a team has acknowledged.
// Entries are transient and expire after a TTL.
type DismissalStore interface {
	Dismiss(ctx context.Context, teamID uint, banner Banner) error
	Dismissed(ctx context.Context, teamID uint) (map[Banner]bool, error)
}

// NewDismissalStore returns a redis backed store, or an in-memory one when rdb is nil
func NewDismissalStore(rdb *redis.Client, ttl time.Duration) DismissalStore {
	if rdb == nil {
		return NewMemoryDismissals(ttl, time.Now)
	}
	return &RedisDismissals{rdb: rdb, ttl: ttl}
}

type RedisDismissals struct {
	rdb *redis.Client
	ttl time.Duration
}

func dismissalKey(teamID uint) string {
	return fmt.Sprintf("dismissed:team:%d", teamID)
}

func (r *RedisDismissals) Dismiss(ctx context.Context, teamID uint, banner Banner) error {
	key := dismissalKey(teamID)
	pipe := r.rdb.TxPipeline()
	pipe.SAdd(ctx, key, banner.member())
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisDismissals) Dismissed(ctx context.Context, teamID uint) (map[Banner]bool, error) {
	members, err := r.rdb.SMembers(ctx, dismissalKey(teamID)).Result()
	if err != nil {
		return nil, err
	}
	dismissed := make(map[Banner]bool, len(members))
	for _, member := range members {
		if banner, ok := parseBanner(member); ok {
			dismissed[banner] = true
		}
	}
	return dismissed, nil
}

type MemoryDismissals struct {
	mu      sync.Mutex
	entries map[uint]map[Banner]time.Time // team -> banner -> expiry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryDismissals(ttl time.Duration, now func() time.Time) *MemoryDismissals {
	return &MemoryDismissals{entries: make(map[uint]map[Banner]time.Time), ttl: ttl, now: now}
}

func (m *MemoryDismissals) Dismiss(_ context.Context, teamID uint, banner Banner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[teamID] == nil {
		m.entries[teamID] = make(map[Banner]time.Time)
	}
	m.entries[teamID][banner] = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryDismissals) Dismissed(_ context.Context, teamID uint) (map[Banner]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	dismissed := make(map[Banner]bool)
	for banner, expiry := range m.entries[teamID] {
		if now.After(expiry) {
			delete(m.entries[teamID], banner)
			continue
		}
		dismissed[banner] = true
	}
	return dismissed, nil
}

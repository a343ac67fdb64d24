package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
)

// Snapshot is the crash-resume state: one slot per session kind, valid for
// the resume window, cleared on normal finish or declined resume.
type Snapshot struct {
	Points        []geo.Point            `json:"points"`
	FoundObjects  []scoring.ObjectMarker `json:"found_objects"`
	Trail         []geo.Point            `json:"trail,omitempty"`
	PlacedObjects []scoring.ObjectMarker `json:"placed_objects,omitempty"`
	Timestamp     int64                  `json:"timestamp"`
}

// SnapshotStore is the storage capability handed to a Recorder at
// construction, never reached through ambient globals.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
	Clear(ctx context.Context) error
}

const snapshotSlot = "current_session"

// MemoryStore keeps the snapshot in process memory with TTL expiry. Used by
// library embedders and tests.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.cache.Set(snapshotSlot, snap, gocache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (Snapshot, bool, error) {
	v, ok := m.cache.Get(snapshotSlot)
	if !ok {
		return Snapshot{}, false, nil
	}
	snap, ok := v.(Snapshot)
	if !ok {
		return Snapshot{}, false, errors.New("session: corrupt snapshot slot")
	}
	return snap, true, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.cache.Delete(snapshotSlot)
	return nil
}

// RedisStore keeps the snapshot in Redis so a session survives process
// restarts. The key carries the resume TTL.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, sessionKey string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: "resume:" + sessionKey, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, payload, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context) (Snapshot, bool, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

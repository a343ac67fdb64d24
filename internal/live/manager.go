package live

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/uxmariia/DOG-TRACKING-228/internal/gps"
	"github.com/uxmariia/DOG-TRACKING-228/internal/session"
)

var ErrBadMode = errors.New("live: mode must be trail or tracking")

// Manager owns one server-side Recorder per live session. Fixes arrive over
// HTTP and are fed into the recorder of the session they address; only the
// session owner may drive its recorder.
type Manager struct {
	store *Store
	redis *redis.Client
	cfg   session.Config

	mu        sync.Mutex
	recorders map[string]*entry
}

type entry struct {
	rec   *session.Recorder
	owner string
}

func NewManager(store *Store, redisClient *redis.Client, cfg session.Config) *Manager {
	return &Manager{
		store:     store,
		redis:     redisClient,
		cfg:       cfg,
		recorders: map[string]*entry{},
	}
}

// StartSession builds and starts a recorder for ownerID. Returns the public
// session id observers use. With Resume set, a crash snapshot younger than
// the resume window restores the previous buffers first.
func (m *Manager) StartSession(ctx context.Context, ownerID string, req StartRequest) (string, error) {
	mode := session.Mode(req.Mode)
	if mode == "" {
		mode = session.ModeTrail
	}
	if mode != session.ModeTrail && mode != session.ModeTracking {
		return "", ErrBadMode
	}

	var snapStore session.SnapshotStore
	if m.redis != nil {
		snapStore = session.NewRedisStore(m.redis, ownerID, m.cfg.ResumeTTL)
	}

	rec := session.NewRecorder(mode, nil, m.cfg, m.store, snapStore)
	rec.SetReference(req.Trail, req.Objects)
	if req.Resume {
		if _, err := rec.TryResume(ctx); err != nil {
			return "", err
		}
	} else if snapStore != nil {
		// a fresh start discards any stale snapshot
		if err := rec.DeclineResume(ctx); err != nil {
			return "", err
		}
	}

	if err := rec.Start(ctx); err != nil {
		return "", err
	}
	id := rec.LiveSessionID()
	if id == "" {
		return "", errors.New("live: session handle unavailable")
	}

	m.mu.Lock()
	m.recorders[id] = &entry{rec: rec, owner: ownerID}
	m.mu.Unlock()
	return id, nil
}

// Recorder resolves the recorder for (sessionID, ownerID). Unknown ids and
// foreign owners are indistinguishable to the caller.
func (m *Manager) Recorder(sessionID, ownerID string) (*session.Recorder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.recorders[sessionID]
	if !ok || e.owner != ownerID {
		return nil, ErrSessionNotFound
	}
	return e.rec, nil
}

// IngestFix runs one raw fix through the session's pipeline. The bool
// reports whether the fix became a point.
func (m *Manager) IngestFix(sessionID, ownerID string, fix gps.Fix) (bool, error) {
	rec, err := m.Recorder(sessionID, ownerID)
	if err != nil {
		return false, err
	}
	return rec.Ingest(fix), nil
}

// Finish freezes the recorder, marks the public session inactive and drops
// the recorder. The result buffers feed track creation.
func (m *Manager) Finish(ctx context.Context, sessionID, ownerID string) (session.Result, error) {
	rec, err := m.Recorder(sessionID, ownerID)
	if err != nil {
		return session.Result{}, err
	}
	result, err := rec.Finish(ctx)
	if err != nil {
		return session.Result{}, err
	}

	if err := m.store.End(ctx, sessionID); err != nil {
		return session.Result{}, err
	}
	m.mu.Lock()
	delete(m.recorders, sessionID)
	m.mu.Unlock()
	return result, nil
}

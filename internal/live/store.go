package live

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uxmariia/DOG-TRACKING-228/internal/session"
	"github.com/uxmariia/DOG-TRACKING-228/internal/shared/code"
	"github.com/uxmariia/DOG-TRACKING-228/internal/stream"
)

var ErrSessionNotFound = errors.New("live: session not found")

const (
	sessionIDLength = 8

	// finished sessions stay readable for a grace period, then expire
	endedSessionTTL = time.Hour
)

// Store keeps live-session records in Redis and fans updates out through the
// stream hub. It is the sink a Recorder pushes to.
type Store struct {
	redis *redis.Client
	hub   *stream.Hub
}

func NewStore(redisClient *redis.Client, hub *stream.Hub) *Store {
	return &Store{redis: redisClient, hub: hub}
}

// Create mints a session id and persists the empty record. Without Redis the
// id is still minted so recording can proceed, but observers see nothing.
func (s *Store) Create(ctx context.Context, mode string) (string, error) {
	sess := Session{
		ID:        code.Generate(sessionIDLength),
		Mode:      mode,
		Active:    true,
		StartedAt: time.Now().UnixMilli(),
		UpdatedAt: time.Now().UnixMilli(),
	}
	if err := s.save(ctx, sess, 0); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Push upserts the session buffers. The newest state wins outright; there is
// no merging and no retry queue.
func (s *Store) Push(ctx context.Context, sessionID string, update session.LiveUpdate) error {
	sess, err := s.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		sess = Session{ID: sessionID, StartedAt: time.Now().UnixMilli()}
	} else if err != nil {
		return err
	}

	sess.Points = update.Points
	sess.Objects = update.Objects
	sess.Active = update.Active
	sess.UpdatedAt = time.Now().UnixMilli()

	ttl := time.Duration(0)
	if !sess.Active {
		ttl = endedSessionTTL
	}
	if err := s.save(ctx, sess, ttl); err != nil {
		return err
	}
	s.broadcast(sess)
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (Session, error) {
	if s.redis == nil {
		return Session{}, ErrSessionNotFound
	}
	payload, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// End marks the session inactive and broadcasts the final state.
func (s *Store) End(ctx context.Context, sessionID string) error {
	sess, err := s.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	sess.Active = false
	sess.UpdatedAt = time.Now().UnixMilli()
	if err := s.save(ctx, sess, endedSessionTTL); err != nil {
		return err
	}
	s.broadcast(sess)
	return nil
}

func (s *Store) save(ctx context.Context, sess Session, ttl time.Duration) error {
	if s.redis == nil {
		return nil
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sessionKey(sess.ID), payload, ttl).Err()
}

func (s *Store) broadcast(sess Session) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(sess)
	s.hub.Broadcast(sess.ID, payload)
}

func sessionKey(id string) string {
	return "live:" + id
}

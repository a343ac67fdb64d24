package live

import (
	"context"
	"errors"
	"testing"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
	"github.com/uxmariia/DOG-TRACKING-228/internal/gps"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
	"github.com/uxmariia/DOG-TRACKING-228/internal/session"
)

func testManager(t *testing.T) *Manager {
	rc, _ := testRedis(t)
	return NewManager(NewStore(rc, nil), rc, session.DefaultConfig())
}

func TestManagerLifecycle(t *testing.T) {
	mgr := testManager(t)

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "trail"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(id) != sessionIDLength {
		t.Fatalf("unexpected id %q", id)
	}

	accepted, err := mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2, Lng: 106.8, Timestamp: 1})
	if err != nil || !accepted {
		t.Fatalf("first fix must be accepted: %v", err)
	}
	// under the 4 m displacement floor
	accepted, err = mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2000001, Lng: 106.8, Timestamp: 2})
	if err != nil || accepted {
		t.Fatalf("jitter fix must be rejected: %v", err)
	}
	accepted, err = mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2001, Lng: 106.8, Timestamp: 3})
	if err != nil || !accepted {
		t.Fatalf("moved fix must be accepted: %v", err)
	}

	result, err := mgr.Finish(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}

	// finished sessions no longer accept control calls
	if _, err := mgr.Recorder(id, "user-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected recorder to be dropped after finish")
	}

	sess, err := mgr.store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("public record after finish: %v", err)
	}
	if sess.Active {
		t.Fatalf("expected inactive public record")
	}
}

func TestManagerFinishWithoutPoints(t *testing.T) {
	mgr := testManager(t)

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "tracking"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := mgr.Finish(context.Background(), id, "user-1"); !errors.Is(err, session.ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}

	// rejection leaves the session usable
	if _, err := mgr.Recorder(id, "user-1"); err != nil {
		t.Fatalf("recorder must survive a rejected finish: %v", err)
	}
}

func TestManagerOwnerScoping(t *testing.T) {
	mgr := testManager(t)

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := mgr.IngestFix(id, "user-2", gps.Fix{Lat: 1, Lng: 2, Timestamp: 3}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign owner must not reach the recorder")
	}
	if _, err := mgr.Recorder("UNKNOWN1", "user-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown id must not resolve")
	}
}

func TestManagerBadMode(t *testing.T) {
	mgr := testManager(t)
	if _, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "sprint"}); !errors.Is(err, ErrBadMode) {
		t.Fatalf("expected ErrBadMode, got %v", err)
	}
}

func TestManagerTrackingDetectsObjects(t *testing.T) {
	mgr := testManager(t)

	placed := []scoring.ObjectMarker{
		{ID: "obj-1", Lat: -6.2001, Lng: 106.8, Type: scoring.MarkerPlaced, Timestamp: 1},
	}
	trail := []geo.Point{{Lat: -6.2, Lng: 106.8, Timestamp: 1}}

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{
		Mode: "tracking", Trail: trail, Objects: placed,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// walk onto the object
	if _, err := mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2, Lng: 106.8, Timestamp: 10}); err != nil {
		t.Fatalf("fix: %v", err)
	}
	if _, err := mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2001, Lng: 106.8, Timestamp: 20}); err != nil {
		t.Fatalf("fix: %v", err)
	}

	rec, err := mgr.Recorder(id, "user-1")
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	found := rec.FoundObjects()
	if len(found) != 1 || found[0].ID != "obj-1" {
		t.Fatalf("expected obj-1 found, got %+v", found)
	}
}

func TestManagerResumeRestoresSnapshot(t *testing.T) {
	rc, _ := testRedis(t)
	mgr := NewManager(NewStore(rc, nil), rc, session.DefaultConfig())

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "trail"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2, Lng: 106.8, Timestamp: 1}); err != nil {
		t.Fatalf("fix: %v", err)
	}
	// recorder lost without a finish, as in a crash
	mgr.mu.Lock()
	delete(mgr.recorders, id)
	mgr.mu.Unlock()

	id2, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "trail", Resume: true})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	rec, err := mgr.Recorder(id2, "user-1")
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	if len(rec.Points()) != 1 {
		t.Fatalf("expected restored point, got %d", len(rec.Points()))
	}
}

func TestManagerFreshStartDiscardsSnapshot(t *testing.T) {
	rc, _ := testRedis(t)
	mgr := NewManager(NewStore(rc, nil), rc, session.DefaultConfig())

	id, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "trail"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := mgr.IngestFix(id, "user-1", gps.Fix{Lat: -6.2, Lng: 106.8, Timestamp: 1}); err != nil {
		t.Fatalf("fix: %v", err)
	}
	mgr.mu.Lock()
	delete(mgr.recorders, id)
	mgr.mu.Unlock()

	id2, err := mgr.StartSession(context.Background(), "user-1", StartRequest{Mode: "trail"})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	rec, err := mgr.Recorder(id2, "user-1")
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	if len(rec.Points()) != 0 {
		t.Fatalf("fresh start must not restore old points")
	}
}

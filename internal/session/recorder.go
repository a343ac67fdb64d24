package session

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
	"github.com/uxmariia/DOG-TRACKING-228/internal/gps"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
)

// Mode selects which buffer a recording feeds.
type Mode string

const (
	ModeTrail    Mode = "trail"    // handler laying the reference trail
	ModeTracking Mode = "tracking" // dog walking the trail
)

// State machine: idle -> running <-> paused -> finished. Finished is
// terminal; a new session needs a fresh Recorder.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

var (
	ErrNoPoints   = errors.New("session: no accepted points")
	ErrNotActive  = errors.New("session: recorder is not active")
	ErrFinished   = errors.New("session: recorder already finished")
	ErrNotPending = errors.New("session: object is not pending confirmation")
)

// Config carries the thresholds the recorder applies per fix.
type Config struct {
	Filter           gps.FilterConfig
	ProximityRadiusM float64
	ConfirmFound     bool          // park detections as pending instead of auto-committing
	ResumeTTL        time.Duration // snapshot validity window
}

func DefaultConfig() Config {
	return Config{
		Filter:           gps.DefaultFilterConfig(),
		ProximityRadiusM: scoring.DefaultProximityRadiusM,
		ResumeTTL:        24 * time.Hour,
	}
}

// LiveUpdate mirrors the in-progress buffers to an external observer sink.
type LiveUpdate struct {
	Points  []geo.Point            `json:"points"`
	Objects []scoring.ObjectMarker `json:"objects"`
	Active  bool                   `json:"active"`
}

// LiveSink is the external live-session collaborator. Push is an idempotent
// upsert keyed by session id; the newest state supersedes any in-flight one.
type LiveSink interface {
	Create(ctx context.Context, mode string) (string, error)
	Push(ctx context.Context, sessionID string, update LiveUpdate) error
}

// Result is the frozen output of a finished recording.
type Result struct {
	Mode         Mode
	Points       []geo.Point
	FoundObjects []scoring.ObjectMarker
}

// Recorder owns the in-memory buffers of one recording session and drives
// the sampler, filter, proximity detector and live sink. All mutations
// happen under one mutex so HTTP-delivered fixes and control calls never
// interleave mid-step.
type Recorder struct {
	mode Mode
	cfg  Config

	sampler *gps.Sampler
	sink    LiveSink
	store   SnapshotStore

	mu           sync.Mutex
	state        State
	sinkID       string
	points       []geo.Point
	lastAccepted *gps.Fix
	trail        []geo.Point
	placed       []scoring.ObjectMarker
	found        []scoring.ObjectMarker
	foundIDs     map[string]bool
	pendingIDs   map[string]bool
	lastErr      *gps.Error
}

// NewRecorder builds an idle recorder. source, sink and store may each be
// nil: a nil source means fixes arrive via Ingest (server-side sessions), a
// nil sink disables live mirroring, a nil store disables crash-resume.
func NewRecorder(mode Mode, source gps.Source, cfg Config, sink LiveSink, store SnapshotStore) *Recorder {
	if cfg.Filter.MinAccuracyM == 0 && cfg.Filter.MinDistanceM == 0 {
		cfg.Filter = gps.DefaultFilterConfig()
	}
	if cfg.ProximityRadiusM == 0 {
		cfg.ProximityRadiusM = scoring.DefaultProximityRadiusM
	}
	if cfg.ResumeTTL == 0 {
		cfg.ResumeTTL = 24 * time.Hour
	}

	r := &Recorder{
		mode:       mode,
		cfg:        cfg,
		sink:       sink,
		store:      store,
		foundIDs:   map[string]bool{},
		pendingIDs: map[string]bool{},
	}
	if source != nil {
		r.sampler = gps.NewSampler(source)
	}
	return r
}

// SetReference seeds the reference trail and placed objects for a tracking
// session. Only meaningful before finish.
func (r *Recorder) SetReference(trail []geo.Point, placed []scoring.ObjectMarker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail = append([]geo.Point(nil), trail...)
	r.placed = append([]scoring.ObjectMarker(nil), placed...)
}

// Start transitions idle -> running, begins the watch and lazily creates the
// live-session handle. Starting twice is a no-op.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRunning:
		return nil
	case StateFinished:
		return ErrFinished
	case StatePaused:
		return ErrNotActive
	}

	if r.sink != nil && r.sinkID == "" {
		id, err := r.sink.Create(ctx, string(r.mode))
		if err != nil {
			log.Printf("live session create failed: %v", err)
		} else {
			r.sinkID = id
		}
	}

	r.state = StateRunning
	r.startWatchLocked()
	return nil
}

// Pause tears the watch down entirely rather than discarding fixes, to spare
// battery. Resume re-subscribes.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return ErrNotActive
	}
	r.state = StatePaused
	if r.sampler != nil {
		r.sampler.Stop()
	}
	return nil
}

func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return ErrNotActive
	}
	r.state = StateRunning
	r.startWatchLocked()
	return nil
}

// Finish freezes the session. Rejected with ErrNoPoints when nothing was
// accepted; the state is left unchanged so the caller can keep recording.
func (r *Recorder) Finish(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateFinished {
		return Result{}, ErrFinished
	}
	if r.state != StateRunning && r.state != StatePaused {
		return Result{}, ErrNotActive
	}
	if len(r.points) == 0 {
		return Result{}, ErrNoPoints
	}

	r.state = StateFinished
	if r.sampler != nil {
		r.sampler.Stop()
	}
	if r.store != nil {
		if err := r.store.Clear(ctx); err != nil {
			log.Printf("resume snapshot clear failed: %v", err)
		}
	}

	return Result{
		Mode:         r.mode,
		Points:       append([]geo.Point(nil), r.points...),
		FoundObjects: append([]scoring.ObjectMarker(nil), r.found...),
	}, nil
}

// Ingest processes one externally delivered fix through the same path the
// watch callback uses. Returns whether the fix became a point.
func (r *Recorder) Ingest(fix gps.Fix) bool {
	return r.handleFix(fix)
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) LiveSessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sinkID
}

func (r *Recorder) Points() []geo.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]geo.Point(nil), r.points...)
}

func (r *Recorder) FoundObjects() []scoring.ObjectMarker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scoring.ObjectMarker(nil), r.found...)
}

func (r *Recorder) PendingObjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.pendingIDs))
	for id := range r.pendingIDs {
		ids = append(ids, id)
	}
	return ids
}

// LastError reports the most recent watch failure, if any.
func (r *Recorder) LastError() *gps.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// ConfirmFound commits a detection previously parked by the confirmation
// gate.
func (r *Recorder) ConfirmFound(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pendingIDs[id] {
		return ErrNotPending
	}
	delete(r.pendingIDs, id)
	r.commitFoundLocked(id, time.Now().UnixMilli())
	r.pushLiveLocked()
	return nil
}

// MarkFound records a manual "object found" action at the last known
// position. No-op without points.
func (r *Recorder) MarkFound() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.points) == 0 {
		return ErrNoPoints
	}
	last := r.points[len(r.points)-1]
	now := time.Now().UnixMilli()
	marker := scoring.ObjectMarker{
		ID:        strconv.FormatInt(now, 10),
		Lat:       last.Lat,
		Lng:       last.Lng,
		Type:      scoring.MarkerFound,
		Timestamp: now,
	}
	r.found = append(r.found, marker)
	r.foundIDs[marker.ID] = true
	r.pushLiveLocked()
	return nil
}

func (r *Recorder) startWatchLocked() {
	if r.sampler == nil {
		return
	}
	r.sampler.Start(
		func(fix gps.Fix) { r.handleFix(fix) },
		func(err *gps.Error) {
			r.mu.Lock()
			r.lastErr = err
			r.mu.Unlock()
			log.Printf("gps watch error %d: %s", err.Code, err.Message)
		},
	)
}

// handleFix runs one fix to completion: filter, append, proximity, snapshot,
// live push. Rejected fixes produce no side effects.
func (r *Recorder) handleFix(fix gps.Fix) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return false
	}
	if !gps.ShouldAccept(fix, r.lastAccepted, r.cfg.Filter) {
		return false
	}

	f := fix
	r.lastAccepted = &f
	r.points = append(r.points, fix.Point())
	r.lastErr = nil

	if r.mode == ModeTracking && len(r.placed) > 0 {
		newly := scoring.DetectNewlyFound(fix.Point(), r.placed, r.foundIDs, r.cfg.ProximityRadiusM)
		for _, id := range newly {
			if r.cfg.ConfirmFound {
				r.pendingIDs[id] = true
			} else {
				r.commitFoundLocked(id, fix.Timestamp)
			}
		}
	}

	r.saveSnapshotLocked()
	r.pushLiveLocked()
	return true
}

func (r *Recorder) commitFoundLocked(id string, ts int64) {
	if r.foundIDs[id] {
		return
	}
	for _, obj := range r.placed {
		if obj.ID != id {
			continue
		}
		r.found = append(r.found, scoring.ObjectMarker{
			ID:        obj.ID,
			Lat:       obj.Lat,
			Lng:       obj.Lng,
			Type:      scoring.MarkerFound,
			Timestamp: ts,
		})
		r.foundIDs[id] = true
		return
	}
}

func (r *Recorder) saveSnapshotLocked() {
	if r.store == nil {
		return
	}
	snap := Snapshot{
		Points:        append([]geo.Point(nil), r.points...),
		FoundObjects:  append([]scoring.ObjectMarker(nil), r.found...),
		Trail:         append([]geo.Point(nil), r.trail...),
		PlacedObjects: append([]scoring.ObjectMarker(nil), r.placed...),
		Timestamp:     time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, snap); err != nil {
		log.Printf("resume snapshot save failed: %v", err)
	}
}

// pushLiveLocked mirrors the buffers to the sink. Best effort: a failed push
// is logged and superseded by the next successful one.
func (r *Recorder) pushLiveLocked() {
	if r.sink == nil || r.sinkID == "" {
		return
	}
	update := LiveUpdate{
		Points:  append([]geo.Point(nil), r.points...),
		Objects: append([]scoring.ObjectMarker(nil), r.found...),
		Active:  r.state == StateRunning,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.sink.Push(ctx, r.sinkID, update); err != nil {
		log.Printf("live session push failed: %v", err)
	}
}

// TryResume loads a crash-resume snapshot into an idle recorder. Returns
// false when there is no snapshot or it is older than the validity window.
func (r *Recorder) TryResume(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle || r.store == nil {
		return false, nil
	}

	snap, ok, err := r.store.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	age := time.Since(time.UnixMilli(snap.Timestamp))
	if age > r.cfg.ResumeTTL {
		return false, nil
	}

	r.points = append([]geo.Point(nil), snap.Points...)
	r.found = append([]scoring.ObjectMarker(nil), snap.FoundObjects...)
	if len(snap.Trail) > 0 {
		r.trail = append([]geo.Point(nil), snap.Trail...)
	}
	if len(snap.PlacedObjects) > 0 {
		r.placed = append([]scoring.ObjectMarker(nil), snap.PlacedObjects...)
	}
	for _, obj := range r.found {
		r.foundIDs[obj.ID] = true
	}
	if len(r.points) > 0 {
		last := r.points[len(r.points)-1]
		r.lastAccepted = &gps.Fix{Lat: last.Lat, Lng: last.Lng, Timestamp: last.Timestamp}
	}
	return true, nil
}

// DeclineResume discards the cached snapshot without installing it.
func (r *Recorder) DeclineResume(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	return r.store.Clear(ctx)
}

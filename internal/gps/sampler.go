package gps

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds one-shot position requests.
const DefaultTimeout = 15 * time.Second

// Source is the platform positioning boundary: a push-based producer of
// fixes with explicit start/stop lifecycle. The far side (browser API,
// mobile OS, simulator) is out of scope.
type Source interface {
	StartWatching(onFix func(Fix), onErr func(*Error))
	StopWatching()
	CurrentPosition(ctx context.Context) (Fix, error)
}

// Sampler wraps a Source with an idempotent watch lifecycle. At most one
// watch is active per sampler; Start while watching is a no-op. Stop releases
// the underlying subscription on the same call.
type Sampler struct {
	source  Source
	timeout time.Duration

	mu       sync.Mutex
	watching bool
}

func NewSampler(source Source) *Sampler {
	return &Sampler{source: source, timeout: DefaultTimeout}
}

// SetTimeout overrides the one-shot request timeout.
func (s *Sampler) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

func (s *Sampler) Start(onFix func(Fix), onErr func(*Error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watching {
		return
	}
	s.watching = true
	s.source.StartWatching(onFix, onErr)
}

func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.watching {
		return
	}
	s.watching = false
	s.source.StopWatching()
}

func (s *Sampler) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

// CurrentPosition resolves a single fix or fails with a typed error. The
// request is not cancellable once issued; it resolves or times out.
func (s *Sampler) CurrentPosition(ctx context.Context) (Fix, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fix, err := s.source.CurrentPosition(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Fix{}, Timeout()
		}
		return Fix{}, err
	}
	return fix, nil
}

package gps

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	startCalls int
	stopCalls  int
	onFix      func(Fix)
	onErr      func(*Error)

	oneShot    Fix
	oneShotErr error
	delay      time.Duration
}

func (f *fakeSource) StartWatching(onFix func(Fix), onErr func(*Error)) {
	f.startCalls++
	f.onFix = onFix
	f.onErr = onErr
}

func (f *fakeSource) StopWatching() {
	f.stopCalls++
}

func (f *fakeSource) CurrentPosition(ctx context.Context) (Fix, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Fix{}, ctx.Err()
		}
	}
	return f.oneShot, f.oneShotErr
}

func TestSamplerStartIdempotent(t *testing.T) {
	src := &fakeSource{}
	s := NewSampler(src)

	s.Start(func(Fix) {}, nil)
	s.Start(func(Fix) {}, nil)
	if src.startCalls != 1 {
		t.Fatalf("expected one start, got %d", src.startCalls)
	}
	if !s.Watching() {
		t.Fatalf("expected watching state")
	}
}

func TestSamplerStopReleasesSubscription(t *testing.T) {
	src := &fakeSource{}
	s := NewSampler(src)

	s.Stop()
	if src.stopCalls != 0 {
		t.Fatalf("stop before start should be a no-op")
	}

	s.Start(func(Fix) {}, nil)
	s.Stop()
	s.Stop()
	if src.stopCalls != 1 {
		t.Fatalf("expected one stop, got %d", src.stopCalls)
	}
	if s.Watching() {
		t.Fatalf("expected watch released")
	}
}

func TestSamplerRestartAfterStop(t *testing.T) {
	src := &fakeSource{}
	s := NewSampler(src)

	s.Start(func(Fix) {}, nil)
	s.Stop()
	s.Start(func(Fix) {}, nil)
	if src.startCalls != 2 {
		t.Fatalf("expected re-subscription, got %d starts", src.startCalls)
	}
}

func TestSamplerDeliversFixes(t *testing.T) {
	src := &fakeSource{}
	s := NewSampler(src)

	var got []Fix
	s.Start(func(f Fix) { got = append(got, f) }, nil)

	src.onFix(Fix{Lat: 50.0, Lng: 30.0})
	src.onFix(Fix{Lat: 50.0001, Lng: 30.0})
	if len(got) != 2 {
		t.Fatalf("expected two fixes, got %d", len(got))
	}
}

func TestSamplerCurrentPosition(t *testing.T) {
	src := &fakeSource{oneShot: Fix{Lat: 50.0, Lng: 30.0}}
	s := NewSampler(src)

	fix, err := s.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("current position: %v", err)
	}
	if fix.Lat != 50.0 {
		t.Fatalf("unexpected fix")
	}
}

func TestSamplerCurrentPositionTimeout(t *testing.T) {
	src := &fakeSource{delay: time.Second}
	s := NewSampler(src)
	s.SetTimeout(10 * time.Millisecond)

	_, err := s.CurrentPosition(context.Background())
	var gpsErr *Error
	if !errors.As(err, &gpsErr) || gpsErr.Code != CodeTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestSamplerCurrentPositionSourceError(t *testing.T) {
	src := &fakeSource{oneShotErr: PositionUnavailable()}
	s := NewSampler(src)

	_, err := s.CurrentPosition(context.Background())
	var gpsErr *Error
	if !errors.As(err, &gpsErr) || gpsErr.Code != CodePositionUnavailable {
		t.Fatalf("expected position unavailable, got %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	if PermissionDenied().Code != 1 || PositionUnavailable().Code != 2 || Timeout().Code != 3 {
		t.Fatalf("unexpected error codes")
	}
	if PermissionDenied().Error() == "" {
		t.Fatalf("expected human readable message")
	}
}

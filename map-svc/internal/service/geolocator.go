package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"gerobak/map-svc/internal/domain"
)

var (
	ErrPermissionDenied    = errors.New("geolocation: permission denied")
	ErrPositionUnavailable = errors.New("geolocation: position unavailable")
	ErrLocateTimeout       = errors.New("geolocation: timed out")
)

// PositionOptions are the hints passed to the device position request.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
}

// StaticGeolocator answers with a fixed point, or ErrPositionUnavailable when
// none is configured.
type StaticGeolocator struct {
	Point *domain.LocationPoint
}

func (g StaticGeolocator) CurrentPosition(ctx context.Context, _ PositionOptions) (domain.LocationPoint, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocationPoint{}, err
	}
	if g.Point == nil {
		return domain.LocationPoint{}, ErrPositionUnavailable
	}
	return *g.Point, nil
}

// ReportedGeolocator serves the position the client device reported through
// the API. A request made before any report waits for one until its context
// ends.
type ReportedGeolocator struct {
	mu      sync.Mutex
	latest  *domain.LocationPoint
	denied  bool
	changed chan struct{}
}

func NewReportedGeolocator() *ReportedGeolocator {
	return &ReportedGeolocator{changed: make(chan struct{})}
}

// Report records a device position and wakes any waiting request.
func (g *ReportedGeolocator) Report(p domain.LocationPoint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest = &p
	g.denied = false
	g.notifyLocked()
}

// Deny records that the user refused location access.
func (g *ReportedGeolocator) Deny() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest = nil
	g.denied = true
	g.notifyLocked()
}

func (g *ReportedGeolocator) notifyLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}

func (g *ReportedGeolocator) CurrentPosition(ctx context.Context, _ PositionOptions) (domain.LocationPoint, error) {
	for {
		g.mu.Lock()
		switch {
		case g.denied:
			g.mu.Unlock()
			return domain.LocationPoint{}, ErrPermissionDenied
		case g.latest != nil:
			p := *g.latest
			g.mu.Unlock()
			return p, nil
		}
		wait := g.changed
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return domain.LocationPoint{}, ErrLocateTimeout
			}
			return domain.LocationPoint{}, ctx.Err()
		case <-wait:
		}
	}
}

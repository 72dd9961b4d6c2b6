package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/locationstore"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPollInterval  = 3 * time.Second
	DefaultLocateTimeout = 5 * time.Second
)

// Ticker is the subset of *time.Ticker the polling loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

type SyncOption func(*LocationSync)

func WithPositionRecorder(recorder PositionRecorder) SyncOption {
	return func(s *LocationSync) { s.recorder = recorder }
}

func WithPollInterval(d time.Duration) SyncOption {
	return func(s *LocationSync) { s.pollInterval = d }
}

func WithLocateTimeout(d time.Duration) SyncOption {
	return func(s *LocationSync) { s.locateTimeout = d }
}

func WithTicker(factory func(time.Duration) Ticker) SyncOption {
	return func(s *LocationSync) { s.newTicker = factory }
}

// LocationSync is the only writer of the LocationStore. It resolves the user
// position, loads the store list and polls vendor positions.
type LocationSync struct {
	source        StoreSource
	geolocator    Geolocator
	store         *locationstore.Store
	recorder      PositionRecorder
	pollInterval  time.Duration
	locateTimeout time.Duration
	newTicker     func(time.Duration) Ticker

	// seq orders fetches by start time so a slow response cannot overwrite
	// a newer one.
	seq atomic.Uint64

	mu     sync.Mutex
	poller *Poller
}

func NewLocationSync(source StoreSource, geolocator Geolocator, store *locationstore.Store, opts ...SyncOption) *LocationSync {
	s := &LocationSync{
		source:        source,
		geolocator:    geolocator,
		store:         store,
		pollInterval:  DefaultPollInterval,
		locateTimeout: DefaultLocateTimeout,
		newTicker:     newTimeTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveUserLocation asks for a one-shot high-accuracy device position,
// bounded by the locate timeout. On success the position is published; on
// failure nothing is written and the error is returned so the caller can
// choose a fallback.
func (s *LocationSync) ResolveUserLocation(ctx context.Context) (domain.LocationPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()

	p, err := s.geolocator.CurrentPosition(ctx, PositionOptions{HighAccuracy: true, Timeout: s.locateTimeout})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrLocateTimeout
		}
		return domain.LocationPoint{}, fmt.Errorf("resolving user location: %w", err)
	}

	s.store.SetUserLocation(&p)
	return p, nil
}

// SetUserLocation publishes a position chosen by the caller, such as an
// application fallback. nil clears it.
func (s *LocationSync) SetUserLocation(p *domain.LocationPoint) {
	s.store.SetUserLocation(p)
}

// FetchAllStores returns the full store list, or an empty one when the
// backend cannot be reached.
func (s *LocationSync) FetchAllStores(ctx context.Context) []domain.Store {
	stores, err := s.source.ListStores(ctx)
	if err != nil {
		logrus.WithError(err).Warn("fetching stores, showing none")
		return []domain.Store{}
	}
	return stores
}

// LoadStores fetches the store list and publishes it.
func (s *LocationSync) LoadStores(ctx context.Context) int {
	seq := s.seq.Add(1)
	stores := s.FetchAllStores(ctx)

	if !s.store.CommitStores(seq, func([]domain.Store) []domain.Store { return stores }) {
		// A newer poll landed first. Keep the list but not its older positions.
		logrus.WithField("seq", seq).Debug("store list older than last update")
		s.store.CommitStores(0, func(current []domain.Store) []domain.Store {
			return preferNewerPositions(stores, current)
		})
	}
	logrus.WithField("count", len(stores)).Info("stores loaded")
	return len(stores)
}

// preferNewerPositions returns incoming with the position of any store that
// current knows more recently.
func preferNewerPositions(incoming, current []domain.Store) []domain.Store {
	byID := make(map[int]domain.Store, len(current))
	for _, s := range current {
		byID[s.StoreID] = s
	}

	merged := make([]domain.Store, len(incoming))
	copy(merged, incoming)
	for i := range merged {
		cur, ok := byID[merged[i].StoreID]
		if !ok || !newer(cur.LocationUpdatedAt, merged[i].LocationUpdatedAt) {
			continue
		}
		merged[i].CurrentLocation = cur.CurrentLocation
		merged[i].LocationUpdatedAt = cur.LocationUpdatedAt
	}
	return merged
}

func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// Poller is the handle of a running polling loop.
type Poller struct {
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func (p *Poller) Interval() time.Duration { return p.interval }

// Done is closed once the loop has exited.
func (p *Poller) Done() <-chan struct{} { return p.done }

// StartPolling begins merging position updates every interval. If polling
// is already running the existing handle is returned unchanged.
func (s *LocationSync) StartPolling(interval time.Duration) *Poller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poller != nil {
		return s.poller
	}
	if interval <= 0 {
		interval = s.pollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{interval: interval, cancel: cancel, done: make(chan struct{})}
	s.poller = p

	go s.pollLoop(ctx, p, s.newTicker(interval))
	logrus.WithField("interval", interval).Info("polling started")
	return p
}

// StopPolling stops the ticker and waits for the loop to exit. A fetch that
// was already in flight completes and applies first. Safe to call when
// polling is not running.
func (s *LocationSync) StopPolling() {
	s.mu.Lock()
	p := s.poller
	s.poller = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.cancel()
	<-p.done
	logrus.Info("polling stopped")
}

func (s *LocationSync) IsPolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poller != nil
}

func (s *LocationSync) pollLoop(ctx context.Context, p *Poller, ticker Ticker) {
	defer close(p.done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.pollOnce(context.WithoutCancel(ctx))
		}
	}
}

func (s *LocationSync) pollOnce(ctx context.Context) {
	seq := s.seq.Add(1)

	updates, err := s.source.ListLocationUpdates(ctx)
	if err != nil {
		logrus.WithError(err).Warn("fetching location updates")
		updates = nil
	}

	applied := s.store.CommitStores(seq, func(current []domain.Store) []domain.Store {
		return mergeLocationUpdates(current, updates)
	})
	if !applied {
		logrus.WithField("seq", seq).Debug("dropped stale location updates")
		return
	}
	logrus.WithField("count", len(updates)).Debug("locations updated")

	if s.recorder != nil && len(updates) > 0 {
		if err := s.recorder.RecordPositions(ctx, updates); err != nil {
			logrus.WithError(err).Warn("recording vendor positions")
		}
	}
}

// mergeLocationUpdates returns a copy of stores with the position fields of
// every matching update swapped in. Stores absent from updates are unchanged.
func mergeLocationUpdates(stores []domain.Store, updates []domain.LocationUpdate) []domain.Store {
	byID := make(map[int]domain.LocationUpdate, len(updates))
	for _, u := range updates {
		byID[u.StoreID] = u
	}

	merged := make([]domain.Store, len(stores))
	copy(merged, stores)
	for i := range merged {
		u, ok := byID[merged[i].StoreID]
		if !ok {
			continue
		}
		if u.CurrentLocation != nil {
			p := *u.CurrentLocation
			merged[i].CurrentLocation = &p
		} else {
			merged[i].CurrentLocation = nil
		}
		merged[i].LocationUpdatedAt = u.LocationUpdatedAt
	}
	return merged
}

// StartSimulation asks the backend to generate moving demo vendors and starts
// polling once it accepts.
func (s *LocationSync) StartSimulation(ctx context.Context) (*Poller, error) {
	if err := s.source.SimulateVendors(ctx); err != nil {
		return nil, fmt.Errorf("starting simulation: %w", err)
	}
	return s.StartPolling(s.pollInterval), nil
}

// ApplyRating writes a refreshed rating after a review is submitted.
func (s *LocationSync) ApplyRating(storeID int, rating float64) {
	s.store.CommitStores(0, func(current []domain.Store) []domain.Store {
		next := make([]domain.Store, len(current))
		copy(next, current)
		for i := range next {
			if next[i].StoreID == storeID {
				next[i].Rating = rating
			}
		}
		return next
	})
}

// ApplyStoreDetails writes the vendor-editable fields of a store returned by
// a storefront update. Position fields are left to polling.
func (s *LocationSync) ApplyStoreDetails(updated domain.Store) {
	s.store.CommitStores(0, func(current []domain.Store) []domain.Store {
		next := make([]domain.Store, len(current))
		copy(next, current)
		for i := range next {
			if next[i].StoreID != updated.StoreID {
				continue
			}
			updated.CurrentLocation = next[i].CurrentLocation
			updated.LocationUpdatedAt = next[i].LocationUpdatedAt
			next[i] = updated
		}
		return next
	})
}

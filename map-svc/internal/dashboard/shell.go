// Package dashboard composes the live store list, the map view and route
// planning behind the intents a client can send.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/geo"
	"gerobak/map-svc/internal/locationstore"
	"gerobak/map-svc/internal/mapview"
	"gerobak/map-svc/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrNoStoreLocation = errors.New("store has no current location")
	ErrNoUserLocation  = errors.New("user location is unknown")
	ErrNoRoute         = errors.New("no route found")
)

type RoutePlanner interface {
	GetRoute(ctx context.Context, from, to domain.LocationPoint) *domain.RouteResult
}

type SortBy string

const (
	SortDistance SortBy = "distance"
	SortRating   SortBy = "rating"
	SortPopular  SortBy = "popular"
)

type Query struct {
	Text      string
	HalalOnly bool
	OpenOnly  bool
	Category  *int
	SortBy    SortBy
}

// Listing is a store row of the bottom panel.
type Listing struct {
	Store        domain.Store `json:"store"`
	DistanceKm   *float64     `json:"distanceKm"`
	DistanceText string       `json:"distanceText,omitempty"`
	Hours        string       `json:"hours"`
	Popularity   float64      `json:"popularity,omitempty"`
}

type RouteSummary struct {
	StoreID      int                `json:"storeId"`
	Route        domain.RouteResult `json:"route"`
	DistanceText string             `json:"distanceText"`
	DurationText string             `json:"durationText"`
}

type Deps struct {
	Store      *locationstore.Store
	Sync       *service.LocationSync
	Routes     RoutePlanner
	View       *mapview.View
	Publisher  service.EventPublisher
	Popularity service.PopularityReader
	// Fallback is used when the device position cannot be resolved. nil
	// leaves the user position unset.
	Fallback *domain.LocationPoint
}

type Shell struct {
	store      *locationstore.Store
	sync       *service.LocationSync
	routes     RoutePlanner
	view       *mapview.View
	publisher  service.EventPublisher
	popularity service.PopularityReader
	fallback   *domain.LocationPoint
	now        func() time.Time

	// routeMu keeps the map's route layer and route in step.
	routeMu sync.Mutex

	mu       sync.Mutex
	selected *int
	route    *RouteSummary
	unbind   func()
	unlisten func()
}

func New(deps Deps) *Shell {
	return &Shell{
		store:      deps.Store,
		sync:       deps.Sync,
		routes:     deps.Routes,
		view:       deps.View,
		publisher:  deps.Publisher,
		popularity: deps.Popularity,
		fallback:   deps.Fallback,
		now:        time.Now,
	}
}

// Start resolves the user position, loads the store list and binds the map
// view to the live store.
func (s *Shell) Start(ctx context.Context) error {
	if _, err := s.LocateUser(ctx); err != nil {
		logrus.WithError(err).Warn("user location unavailable")
	}

	count := s.sync.LoadStores(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unbind != nil {
		return fmt.Errorf("dashboard already started")
	}
	s.unbind = s.view.Bind(s.store)
	s.unlisten = s.view.OnStoreSelected(func(store domain.Store) {
		if _, err := s.SelectStore(context.Background(), store.StoreID); err != nil {
			logrus.WithError(err).WithField("store_id", store.StoreID).Warn("selecting clicked store")
		}
	})

	logrus.WithField("stores", count).Info("dashboard started")
	return nil
}

// Close stops polling and detaches the map view.
func (s *Shell) Close() {
	s.sync.StopPolling()

	s.mu.Lock()
	unbind, unlisten := s.unbind, s.unlisten
	s.unbind, s.unlisten = nil, nil
	s.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
	if unbind != nil {
		unbind()
	}
}

// LocateUser resolves the device position. When that fails the fallback
// point, if any, is published instead and the resolution error is still
// returned. A denial without a fallback clears any earlier position.
func (s *Shell) LocateUser(ctx context.Context) (*domain.LocationPoint, error) {
	p, err := s.sync.ResolveUserLocation(ctx)
	if err == nil {
		return &p, nil
	}
	if s.fallback != nil {
		fallback := *s.fallback
		s.sync.SetUserLocation(&fallback)
		return &fallback, err
	}
	if errors.Is(err, service.ErrPermissionDenied) {
		s.sync.SetUserLocation(nil)
	}
	return nil, err
}

func (s *Shell) Snapshot() locationstore.Snapshot {
	return s.store.Snapshot()
}

func (s *Shell) Store(storeID int) (domain.Store, error) {
	store, ok := s.store.Snapshot().FindStore(storeID)
	if !ok {
		return domain.Store{}, ErrStoreNotFound
	}
	return store, nil
}

func (s *Shell) SelectStore(ctx context.Context, storeID int) (domain.Store, error) {
	store, err := s.Store(storeID)
	if err != nil {
		return domain.Store{}, err
	}

	s.mu.Lock()
	id := storeID
	s.selected = &id
	s.mu.Unlock()

	s.publish(ctx, domain.EventStoreSelected, storeID)
	return store, nil
}

// Selected returns the selected store id, if any.
func (s *Shell) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return 0, false
	}
	return *s.selected, true
}

// RequestRoute plans a route from the user to a store and shows it on the
// map, replacing any previous one.
func (s *Shell) RequestRoute(ctx context.Context, storeID int) (RouteSummary, error) {
	snap := s.store.Snapshot()
	store, ok := snap.FindStore(storeID)
	if !ok {
		return RouteSummary{}, ErrStoreNotFound
	}
	if snap.User == nil {
		return RouteSummary{}, ErrNoUserLocation
	}
	if store.CurrentLocation == nil {
		return RouteSummary{}, ErrNoStoreLocation
	}

	result := s.routes.GetRoute(ctx, *snap.User, *store.CurrentLocation)
	if result == nil {
		s.ClearRoute()
		return RouteSummary{}, ErrNoRoute
	}

	summary := RouteSummary{
		StoreID:      storeID,
		Route:        *result,
		DistanceText: service.FormatDistance(result.Distance),
		DurationText: service.FormatDuration(result.Duration),
	}
	s.routeMu.Lock()
	s.view.DisplayRoute(result.Coordinates)
	s.mu.Lock()
	s.route = &summary
	s.mu.Unlock()
	s.routeMu.Unlock()

	s.publish(ctx, domain.EventRouteRequested, storeID)
	logrus.WithFields(logrus.Fields{
		"store_id": storeID,
		"distance": summary.DistanceText,
		"duration": summary.DurationText,
	}).Info("route displayed")
	return summary, nil
}

func (s *Shell) ClearRoute() {
	s.routeMu.Lock()
	defer s.routeMu.Unlock()

	s.view.ClearRoute()
	s.mu.Lock()
	s.route = nil
	s.mu.Unlock()
}

// CurrentRoute returns the displayed route summary, or nil.
func (s *Shell) CurrentRoute() *RouteSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route == nil {
		return nil
	}
	r := *s.route
	return &r
}

// Search filters the live store list and orders it. Distances are filled in
// whenever the user position is known.
func (s *Shell) Search(ctx context.Context, q Query) []Listing {
	snap := s.store.Snapshot()
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var matched []domain.Store
	for _, store := range snap.Stores {
		if q.HalalOnly && !store.IsHalal {
			continue
		}
		if q.OpenOnly && !store.IsOpen {
			continue
		}
		if q.Category != nil && store.Category != *q.Category {
			continue
		}
		if text != "" && !matchesText(store, text) {
			continue
		}
		matched = append(matched, store)
	}

	listings := make([]Listing, 0, len(matched))
	if snap.User != nil && (q.SortBy == "" || q.SortBy == SortDistance) {
		for _, sd := range geo.SortByDistance(matched, *snap.User) {
			listings = append(listings, newListing(sd.Store, sd.DistanceKm))
		}
	} else {
		for _, store := range matched {
			var dist *float64
			if snap.User != nil && store.CurrentLocation != nil {
				d := geo.DistanceKm(*snap.User, *store.CurrentLocation)
				dist = &d
			}
			listings = append(listings, newListing(store, dist))
		}
	}

	switch q.SortBy {
	case SortRating:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Store.Rating > listings[j].Store.Rating
		})
	case SortPopular:
		s.sortByPopularity(ctx, listings)
	}
	return listings
}

func (s *Shell) sortByPopularity(ctx context.Context, listings []Listing) {
	if s.popularity == nil {
		return
	}
	scores, err := s.popularity.Scores(ctx)
	if err != nil {
		logrus.WithError(err).Warn("loading popularity, keeping order")
		return
	}
	for i := range listings {
		listings[i].Popularity = scores[listings[i].Store.StoreID]
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].Popularity > listings[j].Popularity
	})
}

func newListing(store domain.Store, distanceKm *float64) Listing {
	l := Listing{
		Store:      store,
		DistanceKm: distanceKm,
		Hours:      service.FormatHours(store.OpenTime, store.CloseTime),
	}
	if distanceKm != nil {
		l.DistanceText = service.FormatDistance(*distanceKm * 1000)
	}
	return l
}

func matchesText(store domain.Store, text string) bool {
	if strings.Contains(strings.ToLower(store.Name), text) ||
		strings.Contains(strings.ToLower(store.Description), text) ||
		strings.Contains(strings.ToLower(store.Address), text) {
		return true
	}
	for _, item := range store.Menu {
		if strings.Contains(strings.ToLower(item.Name), text) {
			return true
		}
	}
	return false
}

func (s *Shell) StartPolling(interval time.Duration) *service.Poller {
	return s.sync.StartPolling(interval)
}

func (s *Shell) StopPolling() {
	s.sync.StopPolling()
}

func (s *Shell) IsPolling() bool {
	return s.sync.IsPolling()
}

// StartSimulation asks the backend for demo vendors, reloads the store list
// so they appear, and starts polling.
func (s *Shell) StartSimulation(ctx context.Context) (*service.Poller, error) {
	poller, err := s.sync.StartSimulation(ctx)
	if err != nil {
		return nil, err
	}
	s.sync.LoadStores(ctx)
	return poller, nil
}

func (s *Shell) Frame() mapview.Frame {
	return s.view.Render()
}

func (s *Shell) Click(px mapview.Pixel) mapview.ClickResult {
	return s.view.Click(px)
}

func (s *Shell) SetViewport(vp mapview.Viewport) mapview.Viewport {
	return s.view.SetViewport(vp)
}

func (s *Shell) publish(ctx context.Context, eventType string, storeID int) {
	if s.publisher == nil {
		return
	}
	event := domain.DashboardEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		StoreID:   storeID,
		Timestamp: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithField("type", eventType).Warn("publishing dashboard event")
	}
}

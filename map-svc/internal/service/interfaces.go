package service

import (
	"context"

	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/session"
)

type StoreSource interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	ListLocationUpdates(ctx context.Context) ([]domain.LocationUpdate, error)
	SimulateVendors(ctx context.Context) error
}

type Geolocator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (domain.LocationPoint, error)
}

type PositionRecorder interface {
	RecordPositions(ctx context.Context, updates []domain.LocationUpdate) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.DashboardEvent) error
}

type ReviewBackend interface {
	ListReviews(ctx context.Context, storeID int) ([]domain.Review, error)
	SubmitReview(ctx context.Context, storeID, score int, comment string) (domain.Review, error)
	ReviewStats(ctx context.Context, storeID int) (domain.ReviewStats, error)
}

type RatingSink interface {
	ApplyRating(storeID int, rating float64)
}

type StoreSink interface {
	ApplyStoreDetails(store domain.Store)
}

// ReviewGuard rejects repeated submissions for the same store by the same
// user within a short window.
type ReviewGuard interface {
	MarkerKey(storeID int, userID string) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type PopularityReader interface {
	Scores(ctx context.Context) (map[int]float64, error)
}

type TrailReader interface {
	Trail(ctx context.Context, storeID int, limit int) ([]domain.TrailPoint, error)
}

type AuthBackend interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, email, password, fullName string) (domain.Session, error)
	Me(ctx context.Context) (domain.User, error)
}

type SessionStorage interface {
	SetSession(ctx context.Context, token string, user domain.User) error
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (domain.User, error)
	Clear(ctx context.Context) error
}

type StorefrontBackend interface {
	MyStore(ctx context.Context) (domain.Store, error)
	SetStoreOpen(ctx context.Context, storeID int, open bool) (domain.Store, error)
	UpdateStoreHours(ctx context.Context, storeID, openTime, closeTime int) (domain.Store, error)
	UpdateHalalStatus(ctx context.Context, storeID int, halal bool) (domain.Store, error)
}

type QRGenerator interface {
	Generate(storeID int) ([]byte, error)
}

var (
	_ StoreSource       = (*backend.Client)(nil)
	_ ReviewBackend     = (*backend.Client)(nil)
	_ AuthBackend       = (*backend.Client)(nil)
	_ StorefrontBackend = (*backend.Client)(nil)
	_ SessionStorage    = (*session.RedisStorage)(nil)
	_ RatingSink        = (*LocationSync)(nil)
	_ StoreSink         = (*LocationSync)(nil)
	_ QRGenerator       = StoreQRGenerator{}
	_ Geolocator        = StaticGeolocator{}
	_ Geolocator        = (*ReportedGeolocator)(nil)
)

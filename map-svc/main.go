package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gerobak/config"
	httpapi "gerobak/map-svc/internal/api/http"
	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/dashboard"
	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/locationstore"
	"gerobak/map-svc/internal/mapview"
	"gerobak/map-svc/internal/service"
	"gerobak/map-svc/internal/session"
	"gerobak/map-svc/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	sessionTTL      = 24 * time.Hour
	reviewMarkerTTL = time.Minute
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.RedisAddr)
	defer rdb.Close()

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sessions := session.NewRedisStorage(rdb, sessionID, sessionTTL)

	transport, err := backend.NewAuthTransport(http.DefaultTransport, cfg.BackendURL, sessions)
	if err != nil {
		logrus.Fatal("Invalid BACKEND_URL: ", err)
	}
	backendHTTP := &http.Client{Timeout: cfg.HTTPTimeout, Transport: transport}
	api := backend.NewClient(cfg.BackendURL, backendHTTP)

	// Third-party requests go through a plain client so they never carry the
	// session token.
	routes := service.NewRoutePlanner(cfg.RoutingURL, &http.Client{Timeout: cfg.HTTPTimeout})

	syncOpts := []service.SyncOption{
		service.WithPollInterval(cfg.PollInterval),
		service.WithLocateTimeout(cfg.LocateTimeout),
	}

	var trails service.TrailReader
	if cfg.DatabaseURL != "" {
		db := config.MustInitPostgres(cfg.DatabaseURL)
		defer db.Close()

		repo := storage.NewTrailRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logrus.Fatal("Failed to prepare position history: ", err)
		}
		syncOpts = append(syncOpts, service.WithPositionRecorder(repo))
		trails = repo
	}

	var publisher service.EventPublisher
	if cfg.KafkaBroker != "" {
		writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.EventsTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	store := locationstore.New()
	locator := service.NewReportedGeolocator()
	locSync := service.NewLocationSync(api, locator, store, syncOpts...)

	viewOpts := mapview.DefaultOptions()
	viewOpts.Tiles = mapview.NewTileSource(cfg.TileURL)
	var fallback *domain.LocationPoint
	if cfg.DefaultLat != nil && cfg.DefaultLon != nil {
		fallback = &domain.LocationPoint{Lat: *cfg.DefaultLat, Lon: *cfg.DefaultLon}
		viewOpts.Center = *fallback
	}

	popularity := storage.NewPopularityCache(rdb)
	shell := dashboard.New(dashboard.Deps{
		Store:      store,
		Sync:       locSync,
		Routes:     routes,
		View:       mapview.New(viewOpts),
		Publisher:  publisher,
		Popularity: popularity,
		Fallback:   fallback,
	})
	handler := httpapi.NewHandler(httpapi.Services{
		Dashboard:  shell,
		Locator:    locator,
		Reviews:    service.NewReviewService(api, sessions, locSync, storage.NewReviewMarkers(rdb, reviewMarkerTTL), publisher),
		Auth:       service.NewAuthService(api, sessions),
		Storefront: service.NewStorefrontService(api, locSync),
		QR:         service.StoreQRGenerator{BaseURL: cfg.PublicURL},
		Trails:     trails,
		Popular:    popularity,
		Proxy:      httpapi.NewProxy(cfg.BackendURL, backendHTTP),
	})

	logrus.WithFields(logrus.Fields{
		"backend": cfg.BackendURL,
		"session": sessionID,
	}).Info("map service starting")

	// The device reports its position through the API, so the server must be
	// up while the dashboard locates the user.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpapi.StartServer(ctx, ":"+cfg.Port, httpapi.NewRouter(handler))
	}()

	if err := shell.Start(ctx); err != nil {
		logrus.Fatal("Failed to start dashboard: ", err)
	}
	defer shell.Close()

	if err := <-serverErr; err != nil {
		logrus.Error("Server failed: ", err)
	}
}

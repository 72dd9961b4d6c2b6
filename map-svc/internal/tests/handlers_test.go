package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "gerobak/map-svc/internal/api/http"
	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/dashboard"
	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/mocks"
	"gerobak/map-svc/internal/service"
	"gerobak/map-svc/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeBoard struct {
	top   []domain.Popularity
	daily []domain.Popularity
	limit int64
}

func (b *fakeBoard) Top(_ context.Context, n int64) ([]domain.Popularity, error) {
	b.limit = n
	return b.top, nil
}

func (b *fakeBoard) TopDaily(_ context.Context, _ time.Time, n int64) ([]domain.Popularity, error) {
	b.limit = n
	return b.daily, nil
}

type apiFixture struct {
	*shellFixture
	router     http.Handler
	locator    *service.ReportedGeolocator
	reviews    *mocks.ReviewBackend
	sessions   *mocks.SessionStorage
	auth       *mocks.AuthBackend
	storefront *mocks.StorefrontBackend
}

func newAPI(t *testing.T, configure func(*httpapi.Services)) *apiFixture {
	t.Helper()

	locator := service.NewReportedGeolocator()
	locator.Report(domain.LocationPoint{Lat: -6.21, Lon: 106.85})

	f := newShell(t, locator, nil, nil)
	f.source.On("ListStores", mock.Anything).Return(vendorStores(), nil).Once()
	require.NoError(t, f.shell.Start(context.Background()))

	api := &apiFixture{
		shellFixture: f,
		locator:      locator,
		reviews:      mocks.NewReviewBackend(t),
		sessions:     mocks.NewSessionStorage(t),
		auth:         mocks.NewAuthBackend(t),
		storefront:   mocks.NewStorefrontBackend(t),
	}

	services := httpapi.Services{
		Dashboard:  f.shell,
		Locator:    locator,
		Reviews:    service.NewReviewService(api.reviews, api.sessions, nil, nil, nil),
		Auth:       service.NewAuthService(api.auth, api.sessions),
		Storefront: service.NewStorefrontService(api.storefront, nil),
		QR:         service.StoreQRGenerator{BaseURL: "https://gerobak.example"},
	}
	if configure != nil {
		configure(&services)
	}
	api.router = httpapi.NewRouter(httpapi.NewHandler(services))
	return api
}

func (a *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	api := newAPI(t, nil)
	w := api.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"map-svc"`)
}

func TestListStoresHandler(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode int
		wantIDs  []int
	}{
		{name: "nearest first", path: "/api/stores", wantCode: http.StatusOK, wantIDs: []int{1, 2, 3}},
		{name: "halal only", path: "/api/stores?halal=true", wantCode: http.StatusOK, wantIDs: []int{1, 2}},
		{name: "by rating", path: "/api/stores?sort=rating", wantCode: http.StatusOK, wantIDs: []int{2, 1, 3}},
		{name: "bad sort", path: "/api/stores?sort=price", wantCode: http.StatusBadRequest},
		{name: "bad category", path: "/api/stores?category=mie", wantCode: http.StatusBadRequest},
	}

	api := newAPI(t, nil)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			w := api.do("GET", testCase.path, "")
			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantIDs == nil {
				return
			}

			var listings []struct {
				Store domain.Store `json:"store"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
			ids := make([]int, 0, len(listings))
			for _, l := range listings {
				ids = append(ids, l.Store.StoreID)
			}
			assert.Equal(t, testCase.wantIDs, ids)
		})
	}
}

func TestGetStoreHandler(t *testing.T) {
	api := newAPI(t, nil)

	w := api.do("GET", "/api/stores/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bakso Pak Kumis")

	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/stores/42", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/stores/abc", "").Code)
}

func TestRouteHandlers(t *testing.T) {
	api := newAPI(t, nil)

	assert.Equal(t, http.StatusNoContent, api.do("GET", "/api/route", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do("POST", "/api/route", `{bad`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, api.do("POST", "/api/route", `{"storeId":3}`).Code)
	assert.Equal(t, http.StatusNotFound, api.do("POST", "/api/route", `{"storeId":1}`).Code, "no route from provider")

	api.planner.route = &domain.RouteResult{
		Coordinates: [][2]float64{{106.85, -6.21}, {106.84, -6.2}},
		Distance:    1500,
		Duration:    300,
	}
	w := api.do("POST", "/api/route", `{"storeId":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		StoreID      int    `json:"storeId"`
		DistanceText string `json:"distanceText"`
		DurationText string `json:"durationText"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.StoreID)
	assert.Equal(t, "1.5 km", summary.DistanceText)
	assert.Equal(t, "5 min", summary.DurationText)

	frame := api.do("GET", "/api/map", "")
	assert.Contains(t, frame.Body.String(), `"routeState":"route_displayed"`)

	assert.Equal(t, http.StatusOK, api.do("GET", "/api/route", "").Code)
	assert.Equal(t, http.StatusNoContent, api.do("DELETE", "/api/route", "").Code)
	assert.Equal(t, http.StatusNoContent, api.do("GET", "/api/route", "").Code)
}

func TestMapHandlers(t *testing.T) {
	api := newAPI(t, nil)

	w := api.do("PUT", "/api/map/viewport", `{"center":{"lat":-6.2,"lon":106.84},"zoom":25,"width":400,"height":300}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"zoom":19`)

	assert.Equal(t, http.StatusBadRequest, api.do("PUT", "/api/map/viewport", `{"zoom":10}`).Code)

	w = api.do("POST", "/api/map/click", `{"x":-5000,"y":-5000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":null`)
}

func TestReviewHandlers(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(*apiFixture)
		wantCode int
	}{
		{
			name:     "invalid JSON",
			body:     `{invalid}`,
			setup:    func(*apiFixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "score out of range",
			body:     `{"score":9}`,
			setup:    func(*apiFixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not logged in",
			body: `{"score":4}`,
			setup: func(a *apiFixture) {
				a.sessions.On("User", mock.Anything).Return(domain.User{}, session.ErrNoSession).Once()
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "created",
			body: `{"score":4,"comment":"mantap"}`,
			setup: func(a *apiFixture) {
				a.sessions.On("User", mock.Anything).Return(domain.User{UserID: "u-1"}, nil).Once()
				a.reviews.On("SubmitReview", mock.Anything, 1, 4, "mantap").Return(domain.Review{RatingID: 5, Score: 4}, nil).Once()
				a.reviews.On("ReviewStats", mock.Anything, 1).Return(domain.ReviewStats{AverageRating: 4.1}, nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "backend failure",
			body: `{"score":4}`,
			setup: func(a *apiFixture) {
				a.sessions.On("User", mock.Anything).Return(domain.User{UserID: "u-1"}, nil).Once()
				a.reviews.On("SubmitReview", mock.Anything, 1, 4, "").
					Return(domain.Review{}, &backend.StatusError{Method: "POST", Path: "/stores/1/reviews", StatusCode: 503}).Once()
			},
			wantCode: http.StatusBadGateway,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := newAPI(t, nil)
			testCase.setup(api)

			w := api.do("POST", "/api/stores/1/reviews", testCase.body)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestReviewReadHandlers(t *testing.T) {
	api := newAPI(t, nil)
	api.reviews.On("ListReviews", mock.Anything, 2).Return([]domain.Review{{RatingID: 1, Comment: "enak"}}, nil).Once()
	api.reviews.On("ReviewStats", mock.Anything, 2).Return(domain.ReviewStats{AverageRating: 4.5, TotalReviews: 2}, nil).Once()

	w := api.do("GET", "/api/stores/2/reviews", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "enak")

	w = api.do("GET", "/api/stores/2/reviews/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"averageRating":4.5`)
}

func TestQRCodeHandler(t *testing.T) {
	api := newAPI(t, nil)

	w := api.do("GET", "/api/stores/1/qrcode", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/stores/42/qrcode", "").Code)
}

func TestTrailHandler(t *testing.T) {
	api := newAPI(t, nil)
	assert.Equal(t, http.StatusNotImplemented, api.do("GET", "/api/stores/1/trail", "").Code)

	trails := mocks.NewTrailReader(t)
	withTrails := newAPI(t, func(s *httpapi.Services) { s.Trails = trails })
	trails.On("Trail", mock.Anything, 1, 20).Return([]domain.TrailPoint{
		{StoreID: 1, Location: domain.LocationPoint{Lat: -6.2, Lon: 106.84}},
	}, nil).Once()

	w := withTrails.do("GET", "/api/stores/1/trail?limit=20", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, withTrails.do("GET", "/api/stores/1/trail?limit=-1", "").Code)
}

func TestPopularHandler(t *testing.T) {
	api := newAPI(t, nil)
	assert.Equal(t, http.StatusNotImplemented, api.do("GET", "/api/stores/popular", "").Code)

	board := &fakeBoard{
		top:   []domain.Popularity{{StoreID: 2, Score: 9}},
		daily: []domain.Popularity{{StoreID: 1, Score: 3}},
	}
	api = newAPI(t, func(s *httpapi.Services) { s.Popular = board })

	w := api.do("GET", "/api/stores/popular", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storeId":2`)
	assert.Equal(t, int64(10), board.limit)

	w = api.do("GET", "/api/stores/popular?period=today&limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storeId":1`)
	assert.Equal(t, int64(3), board.limit)

	assert.Equal(t, http.StatusBadRequest, api.do("GET", "/api/stores/popular?limit=x", "").Code)
}

func TestReportLocationHandler(t *testing.T) {
	api := newAPI(t, nil)

	w := api.do("PUT", "/api/me/location", `{"lat":-6.3,"lon":106.9}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.LocationPoint{Lat: -6.3, Lon: 106.9}, *api.shell.Snapshot().User)

	assert.Equal(t, http.StatusBadRequest, api.do("PUT", "/api/me/location", `{"lat":1}`).Code)

	w = api.do("PUT", "/api/me/location", `{"denied":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
	assert.Nil(t, api.shell.Snapshot().User, "denied position is not kept")
}

func TestReportLocationHandler_DuringStart(t *testing.T) {
	locator := service.NewReportedGeolocator()
	f := newShell(t, locator, nil, nil)
	f.source.On("ListStores", mock.Anything).Return(vendorStores(), nil).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Dashboard: f.shell, Locator: locator}))

	started := make(chan error, 1)
	go func() { started <- f.shell.Start(context.Background()) }()

	req := httptest.NewRequest("PUT", "/api/me/location", bytes.NewBufferString(`{"lat":-6.21,"lon":106.85}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("start still waiting for a location after it was reported")
	}
	assert.Equal(t, domain.LocationPoint{Lat: -6.21, Lon: 106.85}, *f.shell.Snapshot().User)
	assert.Equal(t, []int{1, 2, 3}, storeIDs(f.shell.Search(context.Background(), dashboard.Query{})))
}

func TestPollingHandlers(t *testing.T) {
	api := newAPI(t, nil)

	w := api.do("POST", "/api/polling/start", `{"intervalMs":1500}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"intervalMs":1500`)
	assert.Contains(t, api.do("GET", "/api/polling", "").Body.String(), `"polling":true`)

	w = api.do("POST", "/api/polling/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, api.do("GET", "/api/polling", "").Body.String(), `"polling":false`)

	api.source.On("SimulateVendors", mock.Anything).Return(&backend.StatusError{StatusCode: 403}).Once()
	assert.Equal(t, http.StatusBadGateway, api.do("POST", "/api/simulate", "").Code)
}

func TestAuthHandlers(t *testing.T) {
	api := newAPI(t, nil)
	user := domain.User{UserID: "u-1", Email: "ani@example.com"}

	assert.Equal(t, http.StatusBadRequest, api.do("POST", "/api/auth/login", `{"email":"ani@example.com"}`).Code)

	api.auth.On("Login", mock.Anything, "ani@example.com", "secret").
		Return(domain.Session{AccessToken: "tok", User: user}, nil).Once()
	api.sessions.On("SetSession", mock.Anything, "tok", user).Return(nil).Once()
	w := api.do("POST", "/api/auth/login", `{"email":"ani@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	api.sessions.On("Token", mock.Anything).Return("", nil).Once()
	assert.Equal(t, http.StatusUnauthorized, api.do("GET", "/api/auth/me", "").Code)

	api.sessions.On("Clear", mock.Anything).Return(nil).Once()
	assert.Equal(t, http.StatusNoContent, api.do("POST", "/api/auth/logout", "").Code)
}

func TestStorefrontHandlers(t *testing.T) {
	api := newAPI(t, nil)
	store := domain.Store{StoreID: 4, Name: "Soto", IsHalal: true}

	api.storefront.On("MyStore", mock.Anything).Return(store, nil).Once()
	assert.Equal(t, http.StatusOK, api.do("GET", "/api/vendor/my-store", "").Code)

	assert.Equal(t, http.StatusBadRequest, api.do("PUT", "/api/vendor/stores/4/hours", `{"openTime":480}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do("PUT", "/api/vendor/stores/4/hours", `{"openTime":480,"closeTime":2000}`).Code)

	api.storefront.On("UpdateHalalStatus", mock.Anything, 4, true).Return(store, nil).Once()
	w := api.do("PUT", "/api/vendor/stores/4/halal", `{"isHalal":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	api.storefront.On("SetStoreOpen", mock.Anything, 4, false).
		Return(domain.Store{}, &backend.StatusError{StatusCode: 404}).Once()
	assert.Equal(t, http.StatusNotFound, api.do("PUT", "/api/vendor/stores/4/status", `{"isOpen":false}`).Code)
}

func TestVendorProxyHandler(t *testing.T) {
	var gotPath, gotAuth, gotBody, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"store_id":9}`))
	}))
	defer upstream.Close()

	api := newAPI(t, func(s *httpapi.Services) {
		s.Proxy = httpapi.NewProxy(upstream.URL, upstream.Client())
	})

	req := httptest.NewRequest("POST", "/api/vendor/proxy/registerVendorAndStore", bytes.NewBufferString("--b\r\nfield\r\n--b--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	req.Header.Set("Authorization", "Bearer client-supplied")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `{"store_id":9}`, w.Body.String())
	assert.Equal(t, "/vendor/registerVendorAndStore", gotPath)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "multipart/form-data; boundary=b", gotType)
	assert.Equal(t, "--b\r\nfield\r\n--b--", gotBody)

	noProxy := newAPI(t, nil)
	assert.Equal(t, http.StatusNotImplemented, noProxy.do("POST", "/api/vendor/proxy/registerVendorAndStore", "x").Code)
}

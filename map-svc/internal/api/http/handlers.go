package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/dashboard"
	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/mapview"
	"gerobak/map-svc/internal/service"
	"gerobak/map-svc/internal/session"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type PopularityBoard interface {
	Top(ctx context.Context, n int64) ([]domain.Popularity, error)
	TopDaily(ctx context.Context, day time.Time, n int64) ([]domain.Popularity, error)
}

// Services are the collaborators behind the API. Trails, Popular and Proxy
// are optional.
type Services struct {
	Dashboard  *dashboard.Shell
	Locator    *service.ReportedGeolocator
	Reviews    *service.ReviewService
	Auth       *service.AuthService
	Storefront *service.StorefrontService
	QR         service.QRGenerator
	Trails     service.TrailReader
	Popular    PopularityBoard
	Proxy      *Proxy
}

type Handler struct {
	Services
}

func NewHandler(s Services) *Handler {
	return &Handler{Services: s}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/stores", h.listStores).Methods("GET")
	r.HandleFunc("/api/stores/popular", h.popularStores).Methods("GET")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}", h.getStore).Methods("GET")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/select", h.selectStore).Methods("POST")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/reviews", h.listReviews).Methods("GET")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/reviews", h.submitReview).Methods("POST")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/reviews/stats", h.reviewStats).Methods("GET")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/qrcode", h.storeQRCode).Methods("GET")
	r.HandleFunc("/api/stores/{storeId:[0-9]+}/trail", h.storeTrail).Methods("GET")

	r.HandleFunc("/api/map", h.getFrame).Methods("GET")
	r.HandleFunc("/api/map/viewport", h.setViewport).Methods("PUT")
	r.HandleFunc("/api/map/click", h.click).Methods("POST")

	r.HandleFunc("/api/route", h.currentRoute).Methods("GET")
	r.HandleFunc("/api/route", h.requestRoute).Methods("POST")
	r.HandleFunc("/api/route", h.clearRoute).Methods("DELETE")

	r.HandleFunc("/api/me/location", h.reportLocation).Methods("PUT")

	r.HandleFunc("/api/polling", h.pollingStatus).Methods("GET")
	r.HandleFunc("/api/polling/start", h.startPolling).Methods("POST")
	r.HandleFunc("/api/polling/stop", h.stopPolling).Methods("POST")
	r.HandleFunc("/api/simulate", h.simulate).Methods("POST")

	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/me", h.me).Methods("GET")

	r.HandleFunc("/api/vendor/my-store", h.myStore).Methods("GET")
	r.HandleFunc("/api/vendor/stores/{storeId:[0-9]+}/status", h.setStoreStatus).Methods("PUT")
	r.HandleFunc("/api/vendor/stores/{storeId:[0-9]+}/hours", h.setStoreHours).Methods("PUT")
	r.HandleFunc("/api/vendor/stores/{storeId:[0-9]+}/halal", h.setStoreHalal).Methods("PUT")
	r.PathPrefix("/api/vendor/proxy/").HandlerFunc(h.proxyVendor)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("encoding response")
	}
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var statusErr *backend.StatusError

	switch {
	case errors.Is(err, dashboard.ErrStoreNotFound),
		errors.Is(err, dashboard.ErrNoRoute),
		errors.Is(err, backend.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoUserLocation),
		errors.Is(err, dashboard.ErrNoStoreLocation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidHours),
		errors.Is(err, service.ErrMissingCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrLoginRequired),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, backend.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateReview):
		status = http.StatusConflict
	case errors.As(err, &statusErr):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func storeID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["storeId"])
	return id
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "map-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := dashboard.Query{
		Text:      params.Get("q"),
		HalalOnly: params.Get("halal") == "true",
		OpenOnly:  params.Get("open") == "true",
		SortBy:    dashboard.SortBy(params.Get("sort")),
	}
	if raw := params.Get("category"); raw != "" {
		category, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "category must be a number")
			return
		}
		q.Category = &category
	}

	switch q.SortBy {
	case "", dashboard.SortDistance, dashboard.SortRating, dashboard.SortPopular:
	default:
		badRequest(w, "sort must be distance, rating or popular")
		return
	}

	writeJSON(w, http.StatusOK, h.Dashboard.Search(r.Context(), q))
}

func (h *Handler) popularStores(w http.ResponseWriter, r *http.Request) {
	if h.Popular == nil {
		http.Error(w, "popularity is not configured", http.StatusNotImplemented)
		return
	}

	limit := int64(10)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive number")
			return
		}
		limit = n
	}

	var (
		top []domain.Popularity
		err error
	)
	if r.URL.Query().Get("period") == "today" {
		top, err = h.Popular.TopDaily(r.Context(), time.Now(), limit)
	} else {
		top, err = h.Popular.Top(r.Context(), limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.Dashboard.Store(storeID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) selectStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.Dashboard.SelectStore(r.Context(), storeID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.List(r.Context(), storeID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type reviewRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	review, err := h.Reviews.Submit(r.Context(), storeID(r), req.Score, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) reviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reviews.Stats(r.Context(), storeID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) storeQRCode(w http.ResponseWriter, r *http.Request) {
	id := storeID(r)
	if _, err := h.Dashboard.Store(id); err != nil {
		writeError(w, err)
		return
	}

	png, err := h.QR.Generate(id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) storeTrail(w http.ResponseWriter, r *http.Request) {
	if h.Trails == nil {
		http.Error(w, "position history is not configured", http.StatusNotImplemented)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive number")
			return
		}
		limit = n
	}

	points, err := h.Trails.Trail(r.Context(), storeID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) getFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dashboard.Frame())
}

func (h *Handler) setViewport(w http.ResponseWriter, r *http.Request) {
	var vp mapview.Viewport
	if err := json.NewDecoder(r.Body).Decode(&vp); err != nil {
		badRequest(w, err.Error())
		return
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		badRequest(w, "width and height must be positive")
		return
	}
	writeJSON(w, http.StatusOK, h.Dashboard.SetViewport(vp))
}

func (h *Handler) click(w http.ResponseWriter, r *http.Request) {
	var px mapview.Pixel
	if err := json.NewDecoder(r.Body).Decode(&px); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Dashboard.Click(px))
}

func (h *Handler) currentRoute(w http.ResponseWriter, r *http.Request) {
	route := h.Dashboard.CurrentRoute()
	if route == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

type routeRequest struct {
	StoreID int `json:"storeId"`
}

func (h *Handler) requestRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	summary, err := h.Dashboard.RequestRoute(r.Context(), req.StoreID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) clearRoute(w http.ResponseWriter, r *http.Request) {
	h.Dashboard.ClearRoute()
	w.WriteHeader(http.StatusNoContent)
}

type locationReport struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Denied bool     `json:"denied"`
}

func (h *Handler) reportLocation(w http.ResponseWriter, r *http.Request) {
	if h.Locator == nil {
		http.Error(w, "device location reports are not accepted", http.StatusNotImplemented)
		return
	}

	var req locationReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	switch {
	case req.Denied:
		h.Locator.Deny()
	case req.Lat != nil && req.Lon != nil:
		h.Locator.Report(domain.LocationPoint{Lat: *req.Lat, Lon: *req.Lon})
	default:
		badRequest(w, "lat and lon are required unless denied")
		return
	}

	user, err := h.Dashboard.LocateUser(r.Context())
	resp := map[string]interface{}{"user": user}
	if err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type pollingRequest struct {
	IntervalMs int `json:"intervalMs"`
}

func (h *Handler) pollingStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"polling": h.Dashboard.IsPolling()})
}

func (h *Handler) startPolling(w http.ResponseWriter, r *http.Request) {
	var req pollingRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, err.Error())
			return
		}
	}

	poller := h.Dashboard.StartPolling(time.Duration(req.IntervalMs) * time.Millisecond)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"polling":    true,
		"intervalMs": poller.Interval().Milliseconds(),
	})
}

func (h *Handler) stopPolling(w http.ResponseWriter, r *http.Request) {
	h.Dashboard.StopPolling()
	writeJSON(w, http.StatusOK, map[string]bool{"polling": false})
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	poller, err := h.Dashboard.StartSimulation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"polling":    true,
		"intervalMs": poller.Interval().Milliseconds(),
	})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	user, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err.Error())
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) myStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.Storefront.MyStore(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) setStoreStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsOpen *bool `json:"isOpen"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsOpen == nil {
		badRequest(w, "isOpen is required")
		return
	}

	store, err := h.Storefront.SetOpen(r.Context(), storeID(r), *req.IsOpen)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) setStoreHours(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OpenTime  *int `json:"openTime"`
		CloseTime *int `json:"closeTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OpenTime == nil || req.CloseTime == nil {
		badRequest(w, "openTime and closeTime are required")
		return
	}

	store, err := h.Storefront.UpdateHours(r.Context(), storeID(r), *req.OpenTime, *req.CloseTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) setStoreHalal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsHalal *bool `json:"isHalal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsHalal == nil {
		badRequest(w, "isHalal is required")
		return
	}

	store, err := h.Storefront.UpdateHalal(r.Context(), storeID(r), *req.IsHalal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) proxyVendor(w http.ResponseWriter, r *http.Request) {
	if h.Proxy == nil {
		http.Error(w, "vendor proxy is not configured", http.StatusNotImplemented)
		return
	}
	path := "/vendor/" + r.URL.Path[len("/api/vendor/proxy/"):]
	h.Proxy.Forward(w, r, path)
}

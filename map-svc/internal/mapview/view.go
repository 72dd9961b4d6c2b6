package mapview

import (
	"math"
	"sync"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/locationstore"

	"github.com/sirupsen/logrus"
)

// RouteState is the lifecycle of the route layer.
type RouteState int

const (
	NoRoute RouteState = iota
	RouteDisplayed
)

func (s RouteState) String() string {
	switch s {
	case NoRoute:
		return "no_route"
	case RouteDisplayed:
		return "route_displayed"
	}
	return "unknown"
}

func (s RouteState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Options struct {
	Width           int
	Height          int
	Center          domain.LocationPoint
	Zoom            float64
	MinZoom         float64
	MaxZoom         float64
	Tiles           TileSource
	ClusterDistance float64
	MinVendorZoom   float64
	HitTolerance    float64
	FitPadding      float64
	AnimationLength time.Duration
}

func DefaultOptions() Options {
	return Options{
		Width:           800,
		Height:          600,
		Center:          domain.LocationPoint{Lat: -6.2, Lon: 106.816},
		Zoom:            15,
		MinZoom:         2,
		MaxZoom:         19,
		Tiles:           NewTileSource(DefaultTileURL),
		ClusterDistance: 40,
		MinVendorZoom:   12,
		HitTolerance:    16,
		FitPadding:      50,
		AnimationLength: time.Second,
	}
}

// Marker is a clustered vendor marker on screen. StoreID is set only when the
// marker stands for a single store.
type Marker struct {
	StoreID  int                  `json:"storeId,omitempty"`
	Name     string               `json:"name,omitempty"`
	StoreIDs []int                `json:"storeIds"`
	Count    int                  `json:"count"`
	Position domain.LocationPoint `json:"position"`
	Pixel    Pixel                `json:"pixel"`
}

type UserMarker struct {
	Position domain.LocationPoint `json:"position"`
	Pixel    Pixel                `json:"pixel"`
}

type RouteLayer struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Pixels      []Pixel      `json:"pixels"`
}

// Animation is a requested view transition. It is reported once, on the next
// Render.
type Animation struct {
	Center   domain.LocationPoint `json:"center"`
	Zoom     float64              `json:"zoom"`
	Duration time.Duration        `json:"duration"`
}

// Frame is everything a client needs to draw the map.
type Frame struct {
	Viewport       Viewport    `json:"viewport"`
	Tiles          []Tile      `json:"tiles"`
	VendorsVisible bool        `json:"vendorsVisible"`
	MarkerScale    float64     `json:"markerScale"`
	Markers        []Marker    `json:"markers"`
	User           *UserMarker `json:"user"`
	RouteState     RouteState  `json:"routeState"`
	Route          *RouteLayer `json:"route"`
	Animation      *Animation  `json:"animation"`
}

// ClickResult describes what a pointer click hit.
type ClickResult struct {
	Store       *domain.Store `json:"store"`
	ClusterSize int           `json:"clusterSize"`
}

type View struct {
	opts Options

	mu        sync.Mutex
	vp        Viewport
	stores    []domain.Store
	user      *domain.LocationPoint
	route     [][2]float64
	state     RouteState
	animation *Animation

	listeners    map[int]func(domain.Store)
	nextListener int
}

func New(opts Options) *View {
	if opts.MaxZoom == 0 {
		opts.MaxZoom = DefaultOptions().MaxZoom
	}
	if opts.Tiles.Template == "" {
		opts.Tiles = NewTileSource(DefaultTileURL)
	}
	v := &View{
		opts:      opts,
		listeners: make(map[int]func(domain.Store)),
	}
	v.vp = v.clamp(Viewport{Center: opts.Center, Zoom: opts.Zoom, Width: opts.Width, Height: opts.Height})
	return v
}

func (v *View) clamp(vp Viewport) Viewport {
	vp.Zoom = math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, vp.Zoom))
	if vp.Width < 0 {
		vp.Width = 0
	}
	if vp.Height < 0 {
		vp.Height = 0
	}
	return vp
}

func (v *View) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vp
}

// SetViewport moves, zooms or resizes the map. Zoom is clamped to the
// configured range.
func (v *View) SetViewport(vp Viewport) Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp = v.clamp(vp)
	return v.vp
}

// SetStores replaces the vendor layer.
func (v *View) SetStores(stores []domain.Store) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stores = stores
}

// SetUserLocation moves the user marker. When the position changes the view
// recentres on it and one animation is recorded. nil hides the marker.
func (v *View) SetUserLocation(p *domain.LocationPoint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if p == nil {
		v.user = nil
		return false
	}
	if v.user != nil && *v.user == *p {
		return false
	}

	pos := *p
	v.user = &pos
	v.vp.Center = pos
	v.animation = &Animation{Center: pos, Zoom: v.vp.Zoom, Duration: v.opts.AnimationLength}
	return true
}

// OnStoreSelected registers fn to be called with the store whose single
// marker was clicked. The returned func removes the listener.
func (v *View) OnStoreSelected(fn func(domain.Store)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextListener
	v.nextListener++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Click resolves a pointer click at a screen pixel. A single-store marker
// notifies every listener; a cluster of several stores notifies none.
func (v *View) Click(px Pixel) ClickResult {
	v.mu.Lock()
	markers := v.markersLocked()
	var hit *Marker
	best := v.opts.HitTolerance
	for i := range markers {
		if d := markers[i].Pixel.Dist(px); d <= best {
			best = d
			hit = &markers[i]
		}
	}

	if hit == nil {
		v.mu.Unlock()
		return ClickResult{}
	}
	if hit.Count != 1 {
		v.mu.Unlock()
		return ClickResult{ClusterSize: hit.Count}
	}

	var store domain.Store
	for _, s := range v.stores {
		if s.StoreID == hit.StoreID {
			store = s
			break
		}
	}
	listeners := make([]func(domain.Store), 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(store)
	}
	return ClickResult{Store: &store, ClusterSize: 1}
}

// DisplayRoute replaces any current route and fits the view to it.
func (v *View) DisplayRoute(coords [][2]float64) {
	if len(coords) == 0 {
		v.ClearRoute()
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.route = append([][2]float64(nil), coords...)
	v.state = RouteDisplayed
	v.vp = v.fitLocked(coords)
	v.animation = &Animation{Center: v.vp.Center, Zoom: v.vp.Zoom, Duration: v.opts.AnimationLength}
}

// ClearRoute removes the route layer only.
func (v *View) ClearRoute() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.route = nil
	v.state = NoRoute
}

func (v *View) RouteState() RouteState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// fitLocked returns a viewport showing the [lon, lat] extent with padding.
func (v *View) fitLocked(coords [][2]float64) Viewport {
	minPx := Pixel{X: math.Inf(1), Y: math.Inf(1)}
	maxPx := Pixel{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range coords {
		p := Project(domain.LocationPoint{Lon: c[0], Lat: c[1]}, 0)
		minPx.X = math.Min(minPx.X, p.X)
		minPx.Y = math.Min(minPx.Y, p.Y)
		maxPx.X = math.Max(maxPx.X, p.X)
		maxPx.Y = math.Max(maxPx.Y, p.Y)
	}

	vp := v.vp
	vp.Center = Unproject(Pixel{X: (minPx.X + maxPx.X) / 2, Y: (minPx.Y + maxPx.Y) / 2}, 0)

	availW := math.Max(1, float64(vp.Width)-2*v.opts.FitPadding)
	availH := math.Max(1, float64(vp.Height)-2*v.opts.FitPadding)
	w, h := maxPx.X-minPx.X, maxPx.Y-minPx.Y

	ratio := math.Inf(1)
	if w > 0 {
		ratio = availW / w
	}
	if h > 0 {
		ratio = math.Min(ratio, availH/h)
	}
	if math.IsInf(ratio, 1) {
		vp.Zoom = v.opts.MaxZoom
	} else {
		vp.Zoom = math.Log2(ratio)
	}
	return v.clamp(vp)
}

func (v *View) markersLocked() []Marker {
	if v.vp.Zoom < v.opts.MinVendorZoom {
		return nil
	}

	clusters := ClusterStores(v.stores, v.vp.Zoom, v.opts.ClusterDistance)
	markers := make([]Marker, 0, len(clusters))
	for _, c := range clusters {
		m := Marker{
			Count:    c.Size(),
			Position: c.Center,
			Pixel:    v.vp.ToScreen(c.Center),
			StoreIDs: make([]int, 0, c.Size()),
		}
		for _, s := range c.Stores {
			m.StoreIDs = append(m.StoreIDs, s.StoreID)
		}
		if c.Size() == 1 {
			m.StoreID = c.Stores[0].StoreID
			m.Name = c.Stores[0].Name
		}
		markers = append(markers, m)
	}
	return markers
}

// Render builds the current frame and consumes any pending animation.
func (v *View) Render() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	frame := Frame{
		Viewport:       v.vp,
		Tiles:          v.opts.Tiles.VisibleTiles(v.vp),
		VendorsVisible: v.vp.Zoom >= v.opts.MinVendorZoom,
		MarkerScale:    MarkerScale(v.vp.Zoom),
		Markers:        v.markersLocked(),
		RouteState:     v.state,
		Animation:      v.animation,
	}
	if frame.Markers == nil {
		frame.Markers = []Marker{}
	}
	v.animation = nil

	if v.user != nil {
		frame.User = &UserMarker{Position: *v.user, Pixel: v.vp.ToScreen(*v.user)}
	}
	if v.state == RouteDisplayed {
		layer := &RouteLayer{
			Coordinates: v.route,
			Pixels:      make([]Pixel, 0, len(v.route)),
		}
		for _, c := range v.route {
			layer.Pixels = append(layer.Pixels, v.vp.ToScreen(domain.LocationPoint{Lon: c[0], Lat: c[1]}))
		}
		frame.Route = layer
	}
	return frame
}

// Bind follows a LocationStore until the returned func is called. The func
// blocks until the follower has exited.
func (v *View) Bind(store *locationstore.Store) func() {
	snapshots, cancel := store.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for snap := range snapshots {
			v.SetStores(snap.Stores)
			v.SetUserLocation(snap.User)
			logrus.WithField("version", snap.Version).Debug("map view updated")
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

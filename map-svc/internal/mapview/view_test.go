package mapview_test

import (
	"sync"
	"testing"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/locationstore"
	"gerobak/map-svc/internal/mapview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var center = domain.LocationPoint{Lat: -6.2, Lon: 106.8}

func newView() *mapview.View {
	opts := mapview.DefaultOptions()
	opts.Center = center
	return mapview.New(opts)
}

func TestView_RouteLifecycle(t *testing.T) {
	view := newView()
	view.SetStores([]domain.Store{storeAt(1, -6.2, 106.8)})
	assert.Equal(t, mapview.NoRoute, view.RouteState())

	view.DisplayRoute([][2]float64{{106.8, -6.2}, {106.82, -6.21}})
	assert.Equal(t, mapview.RouteDisplayed, view.RouteState())

	second := [][2]float64{{106.8, -6.2}, {106.85, -6.25}, {106.9, -6.3}}
	view.DisplayRoute(second)
	frame := view.Render()
	require.NotNil(t, frame.Route)
	assert.Equal(t, second, frame.Route.Coordinates)
	assert.Len(t, frame.Route.Pixels, 3)

	view.ClearRoute()
	frame = view.Render()
	assert.Equal(t, mapview.NoRoute, frame.RouteState)
	assert.Nil(t, frame.Route)
	assert.Equal(t, "no_route", frame.RouteState.String())
}

func TestView_DisplayRouteFitsExtent(t *testing.T) {
	view := newView()
	route := [][2]float64{{106.7, -6.1}, {106.75, -6.3}, {106.9, -6.25}}

	view.DisplayRoute(route)
	frame := view.Render()
	require.NotNil(t, frame.Animation)

	padding := mapview.DefaultOptions().FitPadding
	for _, px := range frame.Route.Pixels {
		assert.GreaterOrEqual(t, px.X, padding-1e-6)
		assert.LessOrEqual(t, px.X, float64(frame.Viewport.Width)-padding+1e-6)
		assert.GreaterOrEqual(t, px.Y, padding-1e-6)
		assert.LessOrEqual(t, px.Y, float64(frame.Viewport.Height)-padding+1e-6)
	}
}

func TestView_DisplayEmptyRouteClears(t *testing.T) {
	view := newView()
	view.DisplayRoute([][2]float64{{106.8, -6.2}, {106.82, -6.21}})
	view.DisplayRoute(nil)
	assert.Equal(t, mapview.NoRoute, view.RouteState())
}

func TestView_VendorLayerHiddenWhenZoomedOut(t *testing.T) {
	view := newView()
	view.SetStores([]domain.Store{storeAt(1, -6.2, 106.8)})

	frame := view.Render()
	assert.True(t, frame.VendorsVisible)
	assert.Len(t, frame.Markers, 1)
	assert.InDelta(t, 0.5, frame.MarkerScale, 1e-12)

	vp := view.Viewport()
	vp.Zoom = 11
	view.SetViewport(vp)
	frame = view.Render()
	assert.False(t, frame.VendorsVisible)
	assert.Empty(t, frame.Markers)
	assert.NotEmpty(t, frame.Tiles)
}

func TestView_SetViewportClampsZoom(t *testing.T) {
	view := newView()
	vp := view.SetViewport(mapview.Viewport{Center: center, Zoom: 25, Width: 400, Height: 300})
	assert.Equal(t, 19.0, vp.Zoom)
}

func TestView_ClickSingleStoreNotifiesListeners(t *testing.T) {
	view := newView()
	view.SetStores([]domain.Store{storeAt(7, -6.2, 106.8), storeAt(8, -6.2, 106.81)})

	var mu sync.Mutex
	var got []int
	view.OnStoreSelected(func(s domain.Store) {
		mu.Lock()
		got = append(got, s.StoreID)
		mu.Unlock()
	})
	remove := view.OnStoreSelected(func(s domain.Store) {
		mu.Lock()
		got = append(got, -s.StoreID)
		mu.Unlock()
	})
	remove()

	result := view.Click(mapview.Pixel{X: 402, Y: 298})
	require.NotNil(t, result.Store)
	assert.Equal(t, 7, result.Store.StoreID)
	assert.Equal(t, []int{7}, got)

	miss := view.Click(mapview.Pixel{X: 10, Y: 10})
	assert.Nil(t, miss.Store)
	assert.Equal(t, 0, miss.ClusterSize)
}

func TestView_ClickClusterEmitsNothing(t *testing.T) {
	view := newView()
	view.SetStores([]domain.Store{storeAt(1, -6.2, 106.8), storeAt(2, -6.2, 106.8001)})

	called := false
	view.OnStoreSelected(func(domain.Store) { called = true })

	result := view.Click(mapview.Pixel{X: 401, Y: 300})
	assert.Nil(t, result.Store)
	assert.Equal(t, 2, result.ClusterSize)
	assert.False(t, called)
}

func TestView_UserLocationAnimatesOnlyOnChange(t *testing.T) {
	view := newView()
	p := domain.LocationPoint{Lat: -6.21, Lon: 106.85}

	assert.True(t, view.SetUserLocation(&p))
	frame := view.Render()
	require.NotNil(t, frame.Animation)
	assert.Equal(t, p, frame.Animation.Center)
	assert.Equal(t, p, frame.Viewport.Center)
	require.NotNil(t, frame.User)
	assert.InDelta(t, 400, frame.User.Pixel.X, 1e-6)

	assert.Nil(t, view.Render().Animation)

	same := p
	assert.False(t, view.SetUserLocation(&same))
	assert.Nil(t, view.Render().Animation)

	assert.False(t, view.SetUserLocation(nil))
	assert.Nil(t, view.Render().User)
}

func TestView_BindFollowsStore(t *testing.T) {
	store := locationstore.New()
	view := newView()
	unbind := view.Bind(store)

	store.ReplaceStores([]domain.Store{storeAt(1, -6.2, 106.8), storeAt(2, -6.2, 106.81)})
	store.SetUserLocation(&domain.LocationPoint{Lat: -6.2, Lon: 106.805})

	assert.Eventually(t, func() bool {
		frame := view.Render()
		return len(frame.Markers) == 2 && frame.User != nil
	}, time.Second, 10*time.Millisecond)

	unbind()
	unbind()

	store.ReplaceStores(nil)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, view.Render().Markers, 2)
}

package mapview_test

import (
	"testing"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/mapview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAt(id int, lat, lon float64) domain.Store {
	return domain.Store{StoreID: id, Name: "store", CurrentLocation: &domain.LocationPoint{Lat: lat, Lon: lon}}
}

func TestClusterStores_GroupsNearbyMarkers(t *testing.T) {
	stores := []domain.Store{
		storeAt(1, -6.2, 106.8),
		storeAt(2, -6.2, 106.8001),
		storeAt(3, -6.2, 106.81),
		{StoreID: 4},
	}

	clusters := mapview.ClusterStores(stores, 15, 40)
	require.Len(t, clusters, 2)

	assert.Equal(t, 2, clusters[0].Size())
	assert.Equal(t, 1, clusters[0].Stores[0].StoreID)
	assert.Equal(t, 2, clusters[0].Stores[1].StoreID)
	assert.InDelta(t, 106.80005, clusters[0].Center.Lon, 1e-7)
	assert.InDelta(t, -6.2, clusters[0].Center.Lat, 1e-7)

	assert.Equal(t, 1, clusters[1].Size())
	assert.Equal(t, 3, clusters[1].Stores[0].StoreID)
}

func TestClusterStores_ZoomSplitsClusters(t *testing.T) {
	stores := []domain.Store{
		storeAt(1, -6.2, 106.8),
		storeAt(2, -6.2, 106.801),
	}

	assert.Len(t, mapview.ClusterStores(stores, 13, 40), 1)
	assert.Len(t, mapview.ClusterStores(stores, 18, 40), 2)
}

func TestMarkerScale(t *testing.T) {
	assert.InDelta(t, 0.5, mapview.MarkerScale(15), 1e-12)
	assert.InDelta(t, 0.575, mapview.MarkerScale(16), 1e-12)
	assert.InDelta(t, 0.5/1.15, mapview.MarkerScale(14), 1e-12)
	assert.Less(t, mapview.MarkerScale(12), mapview.MarkerScale(18))
}

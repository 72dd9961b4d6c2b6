// Package geo holds the distance maths used to rank stores by proximity.
package geo

import (
	"math"
	"sort"

	"gerobak/map-svc/internal/domain"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between a and b in kilometers.
func DistanceKm(a, b domain.LocationPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// StoreDistance pairs a store with its distance from a reference point.
// DistanceKm is nil when the store has no known position.
type StoreDistance struct {
	Store      domain.Store
	DistanceKm *float64
}

// SortByDistance orders stores nearest first. Stores without a position keep
// their relative order at the end.
func SortByDistance(stores []domain.Store, from domain.LocationPoint) []StoreDistance {
	results := make([]StoreDistance, 0, len(stores))
	for _, store := range stores {
		entry := StoreDistance{Store: store}
		if store.CurrentLocation != nil {
			d := DistanceKm(from, *store.CurrentLocation)
			entry.DistanceKm = &d
		}
		results = append(results, entry)
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].DistanceKm, results[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})

	return results
}

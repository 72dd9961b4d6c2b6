package mapview

import (
	"math"

	"gerobak/map-svc/internal/domain"
)

// Cluster groups stores whose markers would overlap at the current zoom.
type Cluster struct {
	Center domain.LocationPoint
	Stores []domain.Store
}

func (c Cluster) Size() int {
	return len(c.Stores)
}

// ClusterStores groups stores greedily in input order: each unclustered store
// claims every other unclustered store within distance pixels on both axes.
// The cluster centre is the centroid of its members. Stores without a
// position are skipped.
func ClusterStores(stores []domain.Store, zoom, distance float64) []Cluster {
	type point struct {
		store domain.Store
		px    Pixel
	}

	points := make([]point, 0, len(stores))
	for _, s := range stores {
		if s.CurrentLocation == nil {
			continue
		}
		points = append(points, point{store: s, px: Project(*s.CurrentLocation, zoom)})
	}

	claimed := make([]bool, len(points))
	var clusters []Cluster
	for i := range points {
		if claimed[i] {
			continue
		}

		var members []domain.Store
		var sum Pixel
		for j := i; j < len(points); j++ {
			if claimed[j] {
				continue
			}
			if math.Abs(points[j].px.X-points[i].px.X) > distance || math.Abs(points[j].px.Y-points[i].px.Y) > distance {
				continue
			}
			claimed[j] = true
			members = append(members, points[j].store)
			sum.X += points[j].px.X
			sum.Y += points[j].px.Y
		}

		n := float64(len(members))
		clusters = append(clusters, Cluster{
			Center: Unproject(Pixel{X: sum.X / n, Y: sum.Y / n}, zoom),
			Stores: members,
		})
	}
	return clusters
}

// MarkerScale grows vendor icons with zoom around a reference level.
func MarkerScale(zoom float64) float64 {
	return markerBaseScale * math.Pow(markerGrowth, zoom-markerReferenceZoom)
}

const (
	markerBaseScale     = 0.5
	markerGrowth        = 1.15
	markerReferenceZoom = 15
)

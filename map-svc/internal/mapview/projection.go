// Package mapview keeps the map presentation state: viewport, basemap tiles,
// clustered vendor markers, the user marker and the current route.
package mapview

import (
	"math"

	"gerobak/map-svc/internal/domain"
)

const (
	TileSize = 256

	maxLatitude = 85.0511287798
)

// Pixel is a position in pixels, either in world space at some zoom or on
// screen relative to the top-left corner of the viewport.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pixel) Dist(o Pixel) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

func worldSize(zoom float64) float64 {
	return TileSize * math.Exp2(zoom)
}

// Project maps a point to web-mercator world pixels at the given zoom.
func Project(p domain.LocationPoint, zoom float64) Pixel {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p.Lat))
	size := worldSize(zoom)
	sin := math.Sin(lat * math.Pi / 180)
	return Pixel{
		X: (p.Lon + 180) / 360 * size,
		Y: (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * size,
	}
}

// Unproject is the inverse of Project.
func Unproject(px Pixel, zoom float64) domain.LocationPoint {
	size := worldSize(zoom)
	n := math.Pi - 2*math.Pi*px.Y/size
	return domain.LocationPoint{
		Lat: 180 / math.Pi * math.Atan(math.Sinh(n)),
		Lon: px.X/size*360 - 180,
	}
}

// Viewport is the visible part of the map.
type Viewport struct {
	Center domain.LocationPoint `json:"center"`
	Zoom   float64              `json:"zoom"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
}

func (v Viewport) ToScreen(p domain.LocationPoint) Pixel {
	c := Project(v.Center, v.Zoom)
	q := Project(p, v.Zoom)
	return Pixel{
		X: q.X - c.X + float64(v.Width)/2,
		Y: q.Y - c.Y + float64(v.Height)/2,
	}
}

func (v Viewport) FromScreen(px Pixel) domain.LocationPoint {
	c := Project(v.Center, v.Zoom)
	return Unproject(Pixel{
		X: c.X + px.X - float64(v.Width)/2,
		Y: c.Y + px.Y - float64(v.Height)/2,
	}, v.Zoom)
}

// Contains reports whether a screen pixel lies inside the viewport.
func (v Viewport) Contains(px Pixel) bool {
	return px.X >= 0 && px.Y >= 0 && px.X <= float64(v.Width) && px.Y <= float64(v.Height)
}

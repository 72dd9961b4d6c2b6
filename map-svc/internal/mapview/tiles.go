package mapview

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const DefaultTileURL = "https://{a-d}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png"

var subdomainRange = regexp.MustCompile(`\{([a-z0-9])-([a-z0-9])\}`)

// TileSource is an XYZ raster basemap.
type TileSource struct {
	Template   string
	Subdomains []string
	MinZoom    int
	MaxZoom    int
}

// NewTileSource expands a "{a-d}" range in the template into subdomains.
func NewTileSource(template string) TileSource {
	if template == "" {
		template = DefaultTileURL
	}
	src := TileSource{Template: template, MinZoom: 0, MaxZoom: 20}

	if m := subdomainRange.FindStringSubmatch(template); m != nil {
		for c := m[1][0]; c <= m[2][0]; c++ {
			src.Subdomains = append(src.Subdomains, string(c))
		}
		if len(src.Subdomains) > 0 {
			src.Template = strings.Replace(template, m[0], "{s}", 1)
		}
	}
	return src
}

func (s TileSource) URL(z, x, y int) string {
	url := s.Template
	if len(s.Subdomains) > 0 {
		url = strings.ReplaceAll(url, "{s}", s.Subdomains[(x+y)%len(s.Subdomains)])
	}
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{r}", "",
	).Replace(url)
}

// Tile is a basemap image placed on screen.
type Tile struct {
	Z    int     `json:"z"`
	X    int     `json:"x"`
	Y    int     `json:"y"`
	URL  string  `json:"url"`
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
	Size float64 `json:"size"`
}

// VisibleTiles lists the tiles covering the viewport, row by row. Fractional
// zooms use the nearest tile level scaled to fit.
func (s TileSource) VisibleTiles(vp Viewport) []Tile {
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil
	}

	z := int(math.Round(vp.Zoom))
	if z < s.MinZoom {
		z = s.MinZoom
	}
	if z > s.MaxZoom {
		z = s.MaxZoom
	}

	f := math.Exp2(vp.Zoom - float64(z))
	size := TileSize * f
	c := Project(vp.Center, float64(z))
	halfW := float64(vp.Width) / 2 / f
	halfH := float64(vp.Height) / 2 / f

	n := 1 << z
	minX := int(math.Floor((c.X - halfW) / TileSize))
	maxX := int(math.Floor((c.X + halfW) / TileSize))
	minY := max(0, int(math.Floor((c.Y-halfH)/TileSize)))
	maxY := min(n-1, int(math.Floor((c.Y+halfH)/TileSize)))

	var tiles []Tile
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			wrapped := ((x % n) + n) % n
			tiles = append(tiles, Tile{
				Z:    z,
				X:    wrapped,
				Y:    y,
				URL:  s.URL(z, wrapped, y),
				Left: (float64(x)*TileSize-c.X)*f + float64(vp.Width)/2,
				Top:  (float64(y)*TileSize-c.Y)*f + float64(vp.Height)/2,
				Size: size,
			})
		}
	}
	return tiles
}

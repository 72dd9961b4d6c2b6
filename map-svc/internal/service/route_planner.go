package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

// RoutePlanner asks an OSRM-compatible provider for driving routes.
type RoutePlanner struct {
	baseURL string
	client  backend.HTTPClient
}

func NewRoutePlanner(baseURL string, client backend.HTTPClient) *RoutePlanner {
	return &RoutePlanner{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// GetRoute returns the first route from `from` to `to`, or nil when the
// provider has none or cannot be reached.
func (p *RoutePlanner) GetRoute(ctx context.Context, from, to domain.LocationPoint) *domain.RouteResult {
	log := logrus.WithFields(logrus.Fields{"from": from, "to": to})

	// OSRM takes lon,lat pairs.
	endpoint := fmt.Sprintf("%s/%s,%s;%s,%s", p.baseURL,
		formatCoord(from.Lon), formatCoord(from.Lat),
		formatCoord(to.Lon), formatCoord(to.Lat))

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")
	params.Set("steps", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		log.WithError(err).Error("building route request")
		return nil
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("fetching route")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("routing provider error")
		return nil
	}

	var result osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.WithError(err).Warn("parsing route response")
		return nil
	}

	if result.Code != "Ok" || len(result.Routes) == 0 {
		log.WithField("code", result.Code).Info("no route found")
		return nil
	}

	route := result.Routes[0]
	return &domain.RouteResult{
		Coordinates: route.Geometry.Coordinates,
		Distance:    route.Distance,
		Duration:    route.Duration,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

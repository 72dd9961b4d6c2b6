package httpapi

import (
	"io"
	"net/http"
	"strings"

	"gerobak/map-svc/internal/backend"

	"github.com/sirupsen/logrus"
)

// Proxy passes requests through to the platform backend unchanged, so
// multipart uploads such as vendor registration keep their encoding.
type Proxy struct {
	target string
	client backend.HTTPClient
}

func NewProxy(target string, client backend.HTTPClient) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		client: client,
	}
}

func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, path string) {
	log := logrus.WithFields(logrus.Fields{"method": r.Method, "path": path})
	log.Debug("proxying request")

	url := p.target + path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.WithError(err).Error("building proxy request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	// The backend transport attaches the session token itself.
	req.Header.Del("Authorization")
	req.ContentLength = r.ContentLength

	resp, err := p.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("proxying to backend")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.WithError(err).Warn("copying proxy response")
	}
}

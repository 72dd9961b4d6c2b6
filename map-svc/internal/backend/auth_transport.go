package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthTransport attaches the bearer token to requests for the backend origin
// only. Map tiles and the routing provider never see it. A 401 from the
// backend clears the stored session.
type AuthTransport struct {
	Base   http.RoundTripper
	Origin *url.URL
	Tokens TokenSource
}

func NewAuthTransport(base http.RoundTripper, origin string, tokens TokenSource) (*AuthTransport, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing backend origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend origin %q must be absolute", origin)
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{Base: base, Origin: u, Tokens: tokens}, nil
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.sameOrigin(req.URL) {
		return t.Base.RoundTrip(req)
	}

	ctx := req.Context()
	token, err := t.Tokens.Token(ctx)
	if err != nil {
		logrus.WithError(err).Warn("reading session token")
	}
	if token != "" {
		req = req.Clone(ctx)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		logrus.WithField("path", req.URL.Path).Info("session expired, clearing token")
		if err := t.Tokens.Clear(ctx); err != nil {
			logrus.WithError(err).Warn("clearing expired session")
		}
	}
	return resp, nil
}

func (t *AuthTransport) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, t.Origin.Scheme) && strings.EqualFold(u.Host, t.Origin.Host)
}

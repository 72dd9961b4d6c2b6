// Package backend is the REST client for the vendor platform API. It turns
// the snake_case payloads into domain types.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gerobak/map-svc/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	ErrUnauthorized = errors.New("backend: authentication required")
	ErrNotFound     = errors.New("backend: not found")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	client  HTTPClient
}

func NewClient(baseURL string, client HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL is the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListStores(ctx context.Context) ([]domain.Store, error) {
	var payload []apiStore
	if err := c.do(ctx, http.MethodGet, "/stores", nil, &payload); err != nil {
		return nil, err
	}

	stores := make([]domain.Store, 0, len(payload))
	for _, s := range payload {
		stores = append(stores, s.toDomain())
	}
	return stores, nil
}

func (c *Client) GetStore(ctx context.Context, storeID int) (domain.Store, error) {
	var payload apiStore
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stores/%d", storeID), nil, &payload); err != nil {
		return domain.Store{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) ListLocationUpdates(ctx context.Context) ([]domain.LocationUpdate, error) {
	var payload []apiLocationUpdate
	if err := c.do(ctx, http.MethodGet, "/vendor/locations", nil, &payload); err != nil {
		return nil, err
	}

	updates := make([]domain.LocationUpdate, 0, len(payload))
	for _, u := range payload {
		updates = append(updates, u.toDomain())
	}
	return updates, nil
}

func (c *Client) SimulateVendors(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/vendor/simulate3Vendors", struct{}{}, nil)
}

func (c *Client) ListReviews(ctx context.Context, storeID int) ([]domain.Review, error) {
	var payload []apiReview
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stores/%d/reviews", storeID), nil, &payload); err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(payload))
	for _, r := range payload {
		reviews = append(reviews, r.toDomain())
	}
	return reviews, nil
}

func (c *Client) SubmitReview(ctx context.Context, storeID, score int, comment string) (domain.Review, error) {
	body := map[string]interface{}{
		"store_id": storeID,
		"score":    score,
		"comment":  comment,
	}

	var payload apiReview
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/stores/%d/reviews", storeID), body, &payload); err != nil {
		return domain.Review{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) ReviewStats(ctx context.Context, storeID int) (domain.ReviewStats, error) {
	var payload apiReviewStats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stores/%d/reviews/stats", storeID), nil, &payload); err != nil {
		return domain.ReviewStats{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.session(ctx, "/auth/login", body)
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (domain.Session, error) {
	body := map[string]string{"email": email, "password": password, "full_name": fullName}
	return c.session(ctx, "/auth/register", body)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var payload apiUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &payload); err != nil {
		return domain.User{}, err
	}
	return payload.toDomain(), nil
}

// MyStore returns the store owned by the logged-in vendor.
func (c *Client) MyStore(ctx context.Context) (domain.Store, error) {
	var payload apiStore
	if err := c.do(ctx, http.MethodGet, "/vendor/my-store", nil, &payload); err != nil {
		return domain.Store{}, err
	}
	return payload.toDomain(), nil
}

// SetStoreOpen flips the explicit open/closed status of a store.
func (c *Client) SetStoreOpen(ctx context.Context, storeID int, open bool) (domain.Store, error) {
	endpoint := "close"
	if open {
		endpoint = "open"
	}
	return c.putStore(ctx, fmt.Sprintf("/stores/%d/%s", storeID, endpoint), struct{}{})
}

func (c *Client) UpdateStoreHours(ctx context.Context, storeID, openTime, closeTime int) (domain.Store, error) {
	body := map[string]int{"open_time": openTime, "close_time": closeTime}
	return c.putStore(ctx, fmt.Sprintf("/stores/%d/hours", storeID), body)
}

func (c *Client) UpdateHalalStatus(ctx context.Context, storeID int, halal bool) (domain.Store, error) {
	body := map[string]bool{"is_halal": halal}
	return c.putStore(ctx, fmt.Sprintf("/stores/%d/halal", storeID), body)
}

func (c *Client) putStore(ctx context.Context, path string, body interface{}) (domain.Store, error) {
	var payload apiStore
	if err := c.do(ctx, http.MethodPut, path, body, &payload); err != nil {
		return domain.Store{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) session(ctx context.Context, path string, body interface{}) (domain.Session, error) {
	var payload apiLoginResponse
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		User:        payload.User.toDomain(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}

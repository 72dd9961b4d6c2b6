package domain

import "time"

const (
	EventStoreSelected   = "store_selected"
	EventRouteRequested  = "route_requested"
	EventReviewSubmitted = "review_submitted"
)

// DashboardEvent is a map-svc interaction event as read from Kafka.
type DashboardEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StoreID   int       `json:"store_id"`
	Score     int       `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

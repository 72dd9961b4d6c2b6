package domain

import "time"

type LocationPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type MenuItem struct {
	ItemID      int     `json:"itemId"`
	StoreID     int     `json:"storeId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	IsAvailable bool    `json:"isAvailable"`
}

// Store is a vendor stall as the client sees it. CurrentLocation is replaced
// as a whole pointer, never mutated in place, so snapshots can share it.
type Store struct {
	StoreID           int            `json:"storeId"`
	VendorID          int            `json:"vendorId"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Rating            float64        `json:"rating"`
	Category          int            `json:"category"`
	Address           string         `json:"address"`
	IsOpen            bool           `json:"isOpen"`
	IsHalal           bool           `json:"isHalal"`
	OpenTime          int            `json:"openTime"`
	CloseTime         int            `json:"closeTime"`
	StoreImageURL     string         `json:"storeImageUrl"`
	Menu              []MenuItem     `json:"menu"`
	CurrentLocation   *LocationPoint `json:"currentLocation"`
	LocationUpdatedAt *time.Time     `json:"locationUpdatedAt"`
}

// LocationUpdate is the lightweight position record returned by the polling
// endpoint.
type LocationUpdate struct {
	StoreID           int            `json:"storeId"`
	CurrentLocation   *LocationPoint `json:"currentLocation"`
	LocationUpdatedAt *time.Time     `json:"locationUpdatedAt"`
}

// RouteResult is a driving route. Coordinates are [lon, lat] pairs.
type RouteResult struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Distance    float64      `json:"distance"`
	Duration    float64      `json:"duration"`
}

type Review struct {
	RatingID     int       `json:"ratingId"`
	UserID       int       `json:"userId"`
	StoreID      int       `json:"storeId"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewerName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReviewStats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type User struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	CreatedAt  time.Time `json:"createdAt"`
	IsVerified bool      `json:"isVerified"`
}

type Session struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	User        User   `json:"user"`
}

type TrailPoint struct {
	StoreID    int           `json:"storeId"`
	Location   LocationPoint `json:"location"`
	RecordedAt time.Time     `json:"recordedAt"`
}

// Event types published on the dashboard events topic.
const (
	EventStoreSelected   = "store_selected"
	EventRouteRequested  = "route_requested"
	EventReviewSubmitted = "review_submitted"
)

type DashboardEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StoreID   int       `json:"store_id"`
	Score     int       `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Popularity struct {
	StoreID int     `json:"storeId"`
	Score   float64 `json:"score"`
}

package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"gerobak/map-svc/internal/domain"
)

// apiTime accepts both RFC 3339 timestamps and the zone-less ISO format the
// backend emits for naive datetimes (read as UTC).
type apiTime struct {
	time.Time
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	var lastErr error
	for _, layout := range apiTimeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t *apiTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

type apiLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l *apiLocation) point() *domain.LocationPoint {
	if l == nil {
		return nil
	}
	return &domain.LocationPoint{Lat: l.Lat, Lon: l.Lon}
}

type apiMenuItem struct {
	ItemID       int     `json:"item_id"`
	StoreID      int     `json:"store_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	IsAvailable  bool    `json:"is_available"`
	MenuImageURL *string `json:"menu_image_url"`
}

type apiStore struct {
	StoreID           int           `json:"store_id"`
	VendorID          int           `json:"vendor_id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Rating            float64       `json:"rating"`
	CategoryID        int           `json:"category_id"`
	Address           string        `json:"address"`
	IsOpen            bool          `json:"is_open"`
	IsHalal           bool          `json:"is_halal"`
	OpenTime          int           `json:"open_time"`
	CloseTime         int           `json:"close_time"`
	StoreImageURL     *string       `json:"store_image_url"`
	Menu              []apiMenuItem `json:"menu"`
	CurrentLocation   *apiLocation  `json:"current_location"`
	LocationUpdatedAt *apiTime      `json:"location_updated_at"`
}

func (s apiStore) toDomain() domain.Store {
	menu := make([]domain.MenuItem, 0, len(s.Menu))
	for _, item := range s.Menu {
		menu = append(menu, domain.MenuItem{
			ItemID:      item.ItemID,
			StoreID:     item.StoreID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			ImageURL:    deref(item.MenuImageURL),
			IsAvailable: item.IsAvailable,
		})
	}

	return domain.Store{
		StoreID:           s.StoreID,
		VendorID:          s.VendorID,
		Name:              s.Name,
		Description:       s.Description,
		Rating:            s.Rating,
		Category:          s.CategoryID,
		Address:           s.Address,
		IsOpen:            s.IsOpen,
		IsHalal:           s.IsHalal,
		OpenTime:          s.OpenTime,
		CloseTime:         s.CloseTime,
		StoreImageURL:     deref(s.StoreImageURL),
		Menu:              menu,
		CurrentLocation:   s.CurrentLocation.point(),
		LocationUpdatedAt: s.LocationUpdatedAt.ptr(),
	}
}

type apiLocationUpdate struct {
	StoreID           int          `json:"store_id"`
	CurrentLocation   *apiLocation `json:"current_location"`
	LocationUpdatedAt *apiTime     `json:"location_updated_at"`
}

func (u apiLocationUpdate) toDomain() domain.LocationUpdate {
	return domain.LocationUpdate{
		StoreID:           u.StoreID,
		CurrentLocation:   u.CurrentLocation.point(),
		LocationUpdatedAt: u.LocationUpdatedAt.ptr(),
	}
}

type apiReview struct {
	RatingID     int     `json:"rating_id"`
	UserID       int     `json:"user_id"`
	StoreID      int     `json:"store_id"`
	Score        int     `json:"score"`
	Comment      string  `json:"comment"`
	ReviewerName string  `json:"reviewer_name"`
	CreatedAt    apiTime `json:"created_at"`
}

func (r apiReview) toDomain() domain.Review {
	return domain.Review{
		RatingID:     r.RatingID,
		UserID:       r.UserID,
		StoreID:      r.StoreID,
		Score:        r.Score,
		Comment:      r.Comment,
		ReviewerName: r.ReviewerName,
		CreatedAt:    r.CreatedAt.Time,
	}
}

type apiReviewStats struct {
	AverageRating      float64        `json:"average_rating"`
	TotalReviews       int            `json:"total_reviews"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

func (s apiReviewStats) toDomain() domain.ReviewStats {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for key, count := range s.RatingDistribution {
		score, err := strconv.Atoi(key)
		if err != nil || score < 1 || score > 5 {
			continue
		}
		dist[score] = count
	}
	return domain.ReviewStats{
		AverageRating:      s.AverageRating,
		TotalReviews:       s.TotalReviews,
		RatingDistribution: dist,
	}
}

type apiUser struct {
	UserID     json.RawMessage `json:"user_id"`
	Email      string          `json:"email"`
	FullName   string          `json:"full_name"`
	CreatedAt  apiTime         `json:"created_at"`
	IsVerified bool            `json:"is_verified"`
}

func (u apiUser) toDomain() domain.User {
	return domain.User{
		UserID:     rawID(u.UserID),
		Email:      u.Email,
		FullName:   u.FullName,
		CreatedAt:  u.CreatedAt.Time,
		IsVerified: u.IsVerified,
	}
}

type apiLoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        apiUser `json:"user"`
}

// rawID renders a JSON id that may be either a string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

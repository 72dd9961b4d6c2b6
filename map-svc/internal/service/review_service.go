package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidScore    = errors.New("score must be between 1 and 5")
	ErrLoginRequired   = errors.New("login required")
	ErrDuplicateReview = errors.New("review already submitted for this store")
)

type ReviewService struct {
	backend   ReviewBackend
	sessions  SessionStorage
	ratings   RatingSink
	guard     ReviewGuard
	publisher EventPublisher
	now       func() time.Time
}

// NewReviewService wires review submission. guard and publisher may be nil.
func NewReviewService(backend ReviewBackend, sessions SessionStorage, ratings RatingSink, guard ReviewGuard, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		backend:   backend,
		sessions:  sessions,
		ratings:   ratings,
		guard:     guard,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *ReviewService) List(ctx context.Context, storeID int) ([]domain.Review, error) {
	return s.backend.ListReviews(ctx, storeID)
}

func (s *ReviewService) Stats(ctx context.Context, storeID int) (domain.ReviewStats, error) {
	return s.backend.ReviewStats(ctx, storeID)
}

// Submit posts a review for the logged-in user, then refreshes the store's
// rating from the new stats.
func (s *ReviewService) Submit(ctx context.Context, storeID, score int, comment string) (domain.Review, error) {
	if score < 1 || score > 5 {
		return domain.Review{}, ErrInvalidScore
	}

	user, err := s.sessions.User(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return domain.Review{}, ErrLoginRequired
		}
		return domain.Review{}, fmt.Errorf("loading session: %w", err)
	}

	var markerKey string
	if s.guard != nil {
		markerKey = s.guard.MarkerKey(storeID, user.UserID)
		if exists, _ := s.guard.Exists(ctx, markerKey); exists {
			return domain.Review{}, ErrDuplicateReview
		}
	}

	review, err := s.backend.SubmitReview(ctx, storeID, score, strings.TrimSpace(comment))
	if err != nil {
		return domain.Review{}, fmt.Errorf("submitting review: %w", err)
	}

	if s.guard != nil {
		_ = s.guard.SetMarker(ctx, markerKey)
	}

	log := logrus.WithFields(logrus.Fields{"store_id": storeID, "score": score})
	if stats, err := s.backend.ReviewStats(ctx, storeID); err != nil {
		log.WithError(err).Warn("refreshing rating after review")
	} else if s.ratings != nil {
		s.ratings.ApplyRating(storeID, stats.AverageRating)
	}

	if s.publisher != nil {
		event := domain.DashboardEvent{
			ID:        uuid.NewString(),
			Type:      domain.EventReviewSubmitted,
			StoreID:   storeID,
			Score:     score,
			Timestamp: s.now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.WithError(err).Warn("publishing review event")
		}
	}

	log.Info("review submitted")
	return review, nil
}

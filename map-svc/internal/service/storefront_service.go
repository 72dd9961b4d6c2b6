package service

import (
	"context"
	"errors"
	"fmt"

	"gerobak/map-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

var ErrInvalidHours = errors.New("hours must be minutes within a day")

const minutesPerDay = 24 * 60

// StorefrontService lets a vendor manage their own store. Successful updates
// are written back to the live store list.
type StorefrontService struct {
	backend StorefrontBackend
	sink    StoreSink
}

func NewStorefrontService(backend StorefrontBackend, sink StoreSink) *StorefrontService {
	return &StorefrontService{backend: backend, sink: sink}
}

func (s *StorefrontService) MyStore(ctx context.Context) (domain.Store, error) {
	return s.backend.MyStore(ctx)
}

func (s *StorefrontService) SetOpen(ctx context.Context, storeID int, open bool) (domain.Store, error) {
	store, err := s.backend.SetStoreOpen(ctx, storeID, open)
	if err != nil {
		return domain.Store{}, fmt.Errorf("updating store status: %w", err)
	}
	return s.apply(store), nil
}

func (s *StorefrontService) UpdateHours(ctx context.Context, storeID, openTime, closeTime int) (domain.Store, error) {
	if !validMinute(openTime) || !validMinute(closeTime) {
		return domain.Store{}, ErrInvalidHours
	}
	store, err := s.backend.UpdateStoreHours(ctx, storeID, openTime, closeTime)
	if err != nil {
		return domain.Store{}, fmt.Errorf("updating store hours: %w", err)
	}
	return s.apply(store), nil
}

func (s *StorefrontService) UpdateHalal(ctx context.Context, storeID int, halal bool) (domain.Store, error) {
	store, err := s.backend.UpdateHalalStatus(ctx, storeID, halal)
	if err != nil {
		return domain.Store{}, fmt.Errorf("updating halal status: %w", err)
	}
	return s.apply(store), nil
}

func (s *StorefrontService) apply(store domain.Store) domain.Store {
	if s.sink != nil {
		s.sink.ApplyStoreDetails(store)
	}
	logrus.WithField("store_id", store.StoreID).Info("storefront updated")
	return store
}

func validMinute(m int) bool {
	return m >= 0 && m < minutesPerDay
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "steadyhotel/internal/bookings/errors"
	"steadyhotel/internal/bookings/repository"
	"steadyhotel/pkg/config"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/model"
)

// BookingService exposes read access to recorded bookings. Writes only
// happen through the checkout workflow.
type BookingService interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewBookingService(repo repository.BookingRepository, cfg *config.Config) BookingService {
	return &bookingService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, accommodationID string, checkIn, checkOut *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if accommodationID == "" {
		return nil, 0, apperrors.InvalidInput("AccommodationID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByAccommodationAndDates(ctx, accommodationID, checkIn, checkOut)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by search",
				"accommodation_id", accommodationID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByAccommodationAndDates(ctx, accommodationID, checkIn, checkOut, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"accommodation_id", accommodationID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed",
		"accommodation_id", accommodationID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

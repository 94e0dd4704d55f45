package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	accommodationserrors "steadyhotel/internal/accommodations/errors"
	"steadyhotel/internal/accommodations/repository"
	"steadyhotel/pkg/config"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/model"
	"steadyhotel/pkg/sanitizer"
)

// maxCatalogScan bounds the in-memory pass used when a filter needs
// normalized prices. The catalog is a few hundred units at most.
const maxCatalogScan = 500

type AccommodationService interface {
	GetByID(ctx context.Context, id string) (*model.Accommodation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, int64, error)
	Search(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, int64, error)
	GetImages(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error)
}

type accommodationService struct {
	repo repository.AccommodationRepository
	cfg  *config.Config
}

func NewAccommodationService(repo repository.AccommodationRepository, cfg *config.Config) AccommodationService {
	return &accommodationService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *accommodationService) GetByID(ctx context.Context, id string) (*model.Accommodation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Accommodation ID cannot be empty")
	}

	accommodation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, accommodationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Accommodation", id)
		}
		if errors.Is(err, accommodationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid accommodation ID format")
		}
		return nil, apperrors.Internal("Failed to get accommodation", err)
	}

	return accommodation, nil
}

func (s *accommodationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var accommodations []*model.Accommodation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
	}()

	go func() {
		defer wg.Done()
		accommodations, errFind = s.repo.FindAll(ctx, limit, offset)
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count accommodations", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to list accommodations", errFind)
	}

	return accommodations, count, nil
}

// Search runs the filter against the catalog. Term, capacity and amenity
// predicates execute in the database; price bounds and price ordering
// need normalized prices, so those run here over a bounded scan.
func (s *accommodationService) Search(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, int64, error) {
	if filter == nil {
		filter = &model.AccommodationFilter{}
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	if needsPricePass(filter) {
		return s.searchWithPrices(ctx, filter, limit, offset)
	}

	var count int64
	var accommodations []*model.Accommodation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountBySearch(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		accommodations, errFind = s.repo.Search(ctx, filter, limit, offset)
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count accommodations", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to search accommodations", errFind)
	}

	return accommodations, count, nil
}

func needsPricePass(filter *model.AccommodationFilter) bool {
	return filter.PriceMin != nil || filter.PriceMax != nil || filter.SortBy == "price"
}

func (s *accommodationService) searchWithPrices(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, int64, error) {
	candidates, err := s.repo.Search(ctx, filter, maxCatalogScan, 0)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to search accommodations", err)
	}

	type priced struct {
		accommodation *model.Accommodation
		price         float64
	}

	var matched []priced
	for _, a := range candidates {
		price, err := sanitizer.NormalizePrice(a.Price)
		if err != nil {
			// A unit without a readable price cannot satisfy a price
			// predicate and cannot be ordered by price.
			s.cfg.Log.Warn("Skipping accommodation with unreadable price",
				"accommodation_id", a.ID,
				"error", err,
			)
			continue
		}
		if filter.PriceMin != nil && price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && price > *filter.PriceMax {
			continue
		}
		matched = append(matched, priced{accommodation: a, price: price})
	}

	if filter.SortBy == "price" {
		sort.SliceStable(matched, func(i, j int) bool {
			if filter.SortDesc {
				return matched[i].price > matched[j].price
			}
			return matched[i].price < matched[j].price
		})
	}

	total := int64(len(matched))

	start := offset
	if start > total {
		start = total
	}
	end := start + int64(limit)
	if end > total {
		end = total
	}

	page := make([]*model.Accommodation, 0, end-start)
	for _, p := range matched[start:end] {
		page = append(page, p.accommodation)
	}

	return page, total, nil
}

func (s *accommodationService) GetImages(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error) {
	if accommodationID == "" {
		return nil, apperrors.InvalidInput("Accommodation ID cannot be empty")
	}

	images, err := s.repo.FindImages(ctx, accommodationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to get accommodation images", err)
	}

	return images, nil
}

package service

import (
	"context"
	"testing"
	"time"

	accommodationserrors "steadyhotel/internal/accommodations/errors"
	"steadyhotel/pkg/config"
	apperrors "steadyhotel/pkg/errors"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"
)

type mockAccommodationRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.Accommodation, error)
	findAllFunc       func(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error)
	searchFunc        func(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error)
	countBySearchFunc func(ctx context.Context, filter *model.AccommodationFilter) (int64, error)
	countFunc         func(ctx context.Context) (int64, error)
	findImagesFunc    func(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error)
}

func (m *mockAccommodationRepository) FindByID(ctx context.Context, id string) (*model.Accommodation, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockAccommodationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error) {
	return m.findAllFunc(ctx, limit, offset)
}

func (m *mockAccommodationRepository) Search(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
	return m.searchFunc(ctx, filter, limit, offset)
}

func (m *mockAccommodationRepository) CountBySearch(ctx context.Context, filter *model.AccommodationFilter) (int64, error) {
	return m.countBySearchFunc(ctx, filter)
}

func (m *mockAccommodationRepository) Count(ctx context.Context) (int64, error) {
	return m.countFunc(ctx)
}

func (m *mockAccommodationRepository) FindImages(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error) {
	return m.findImagesFunc(ctx, accommodationID)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func catalog() []*model.Accommodation {
	return []*model.Accommodation{
		{ID: "a1", Name: "Standard Room", Category: "Standard Room", Price: 800.0, MaxGuests: 2},
		{ID: "a2", Name: "Honeymoon Suite", Category: "Honeymoon Suite", Price: "R 2,500.00", MaxGuests: 2},
		{ID: "a3", Name: "Spa Day", Category: "Spa", Price: map[string]any{"value": 450.0}, MaxGuests: 10},
		{ID: "a4", Name: "Conference Hall", Category: "Conference Hall", Price: "price on request", MaxGuests: 250},
	}
}

func TestSearch_PriceRangeUsesNormalizedPrices(t *testing.T) {
	repo := &mockAccommodationRepository{
		searchFunc: func(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
			return catalog(), nil
		},
	}
	svc := NewAccommodationService(repo, testConfig())

	min := 500.0
	max := 3000.0
	results, total, err := svc.Search(context.Background(), &model.AccommodationFilter{
		PriceMin: &min,
		PriceMax: &max,
	}, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	// a1 (800) and a2 (2500 from the formatted string) match; a3 (450) is
	// below the minimum and a4 has no readable price.
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	ids := map[string]bool{}
	for _, a := range results {
		ids[a.ID] = true
	}
	if !ids["a1"] || !ids["a2"] {
		t.Errorf("results = %v, want a1 and a2", ids)
	}
	if ids["a4"] {
		t.Error("a unit without a readable price must not match a price filter")
	}
}

func TestSearch_SortByPrice(t *testing.T) {
	repo := &mockAccommodationRepository{
		searchFunc: func(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
			return catalog(), nil
		},
	}
	svc := NewAccommodationService(repo, testConfig())

	results, _, err := svc.Search(context.Background(), &model.AccommodationFilter{
		SortBy: "price",
	}, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	var order []string
	for _, a := range results {
		order = append(order, a.ID)
	}
	want := []string{"a3", "a1", "a2"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestSearch_PricePassPagination(t *testing.T) {
	repo := &mockAccommodationRepository{
		searchFunc: func(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
			return catalog(), nil
		},
	}
	svc := NewAccommodationService(repo, testConfig())

	results, total, err := svc.Search(context.Background(), &model.AccommodationFilter{
		SortBy: "price",
	}, 2, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(results) != 1 || results[0].ID != "a2" {
		t.Errorf("page = %v, want just a2", results)
	}
}

func TestSearch_WithoutPricePredicatesDelegatesToRepository(t *testing.T) {
	var searchCalled, countCalled bool
	repo := &mockAccommodationRepository{
		searchFunc: func(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
			searchCalled = true
			if limit != 10 || offset != 0 {
				t.Errorf("limit/offset = %d/%d, want 10/0", limit, offset)
			}
			return catalog()[:2], nil
		},
		countBySearchFunc: func(ctx context.Context, filter *model.AccommodationFilter) (int64, error) {
			countCalled = true
			return 2, nil
		},
	}
	svc := NewAccommodationService(repo, testConfig())

	results, total, err := svc.Search(context.Background(), &model.AccommodationFilter{
		SearchTerm: "suite",
	}, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if !searchCalled || !countCalled {
		t.Error("expected both search and count to run in the repository")
	}
	if total != 2 || len(results) != 2 {
		t.Errorf("total/len = %d/%d, want 2/2", total, len(results))
	}
}

func TestGetByID_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		repoErr    error
		wantStatus int
	}{
		{"not found", "507f1f77bcf86cd799439011", accommodationserrors.ErrNotFound, 404},
		{"invalid id", "nope", accommodationserrors.ErrInvalidID, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAccommodationRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Accommodation, error) {
					return nil, tt.repoErr
				},
			}
			svc := NewAccommodationService(repo, testConfig())

			_, err := svc.GetByID(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestGetByID_EmptyID(t *testing.T) {
	svc := NewAccommodationService(&mockAccommodationRepository{}, testConfig())

	_, err := svc.GetByID(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestGetImages(t *testing.T) {
	repo := &mockAccommodationRepository{
		findImagesFunc: func(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error) {
			return []*model.AccommodationImage{
				{ID: "i1", AccommodationID: accommodationID, URL: "https://cdn.example.com/1.jpg", Position: 0},
				{ID: "i2", AccommodationID: accommodationID, URL: "https://cdn.example.com/2.jpg", Position: 1},
			}, nil
		},
	}
	svc := NewAccommodationService(repo, testConfig())

	images, err := svc.GetImages(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get images failed: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("len = %d, want 2", len(images))
	}
}

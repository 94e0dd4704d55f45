package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accommodationserrors "steadyhotel/internal/accommodations/errors"
	"steadyhotel/pkg/config"
	"steadyhotel/pkg/model"
)

const (
	CollectionName      = "Accommodations"
	ImageCollectionName = "Accommodation_images"
)

type mongoAccommodationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	images     *mongo.Collection
}

type AccommodationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Accommodation, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error)
	Search(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error)
	CountBySearch(ctx context.Context, filter *model.AccommodationFilter) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindImages(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error)
}

func NewMongoAccommodationRepository(cfg *config.Config) AccommodationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAccommodationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		images:     db.Collection(ImageCollectionName),
	}
}

func (r *mongoAccommodationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAccommodationRepository) FindByID(ctx context.Context, id string) (*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accommodationserrors.ErrInvalidID, id)
	}

	var accommodation model.Accommodation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&accommodation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accommodationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find accommodation: %w", err)
	}

	return &accommodation, nil
}

func (r *mongoAccommodationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query accommodations: %w", err)
	}
	defer cursor.Close(ctx)

	var accommodations []*model.Accommodation
	if err = cursor.All(ctx, &accommodations); err != nil {
		return nil, fmt.Errorf("failed to decode accommodations: %w", err)
	}

	return accommodations, nil
}

// buildSearchFilter translates the catalog filter into a Mongo query.
// Price bounds are not included: legacy documents store price in mixed
// shapes, so the price range is applied by the service after
// normalization.
func buildSearchFilter(filter *model.AccommodationFilter) bson.M {
	query := bson.M{}

	if filter.SearchTerm != "" {
		pattern := primitive.Regex{Pattern: filter.SearchTerm, Options: "i"}
		query["$or"] = []bson.M{
			{"name": pattern},
			{"description": pattern},
			{"category": pattern},
		}
	}

	if filter.MinGuests != nil {
		query["max_guests"] = bson.M{"$gte": *filter.MinGuests}
	}

	for _, amenity := range filter.Amenities {
		query[fmt.Sprintf("amenities.%s", amenity)] = true
	}

	return query
}

func searchSort(filter *model.AccommodationFilter) bson.D {
	field := "name"
	switch filter.SortBy {
	case "category":
		field = "category"
	case "max_guests":
		field = "max_guests"
	}

	direction := 1
	if filter.SortDesc {
		direction = -1
	}

	return bson.D{{Key: field, Value: direction}}
}

func (r *mongoAccommodationRepository) Search(ctx context.Context, filter *model.AccommodationFilter, limit int, offset int64) ([]*model.Accommodation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(searchSort(filter))

	cursor, err := r.collection.Find(ctx, buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search accommodations: %w", err)
	}
	defer cursor.Close(ctx)

	var accommodations []*model.Accommodation
	if err = cursor.All(ctx, &accommodations); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	return accommodations, nil
}

func (r *mongoAccommodationRepository) CountBySearch(ctx context.Context, filter *model.AccommodationFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

func (r *mongoAccommodationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count accommodations: %w", err)
	}
	return count, nil
}

func (r *mongoAccommodationRepository) FindImages(ctx context.Context, accommodationID string) ([]*model.AccommodationImage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.images.Find(ctx, bson.M{"accommodation_id": accommodationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query accommodation images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []*model.AccommodationImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode accommodation images: %w", err)
	}

	return images, nil
}

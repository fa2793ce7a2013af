package repositories

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripcanvas/internal/models/db_models"
)

type PlaceRepository interface {
	// SearchByTitle returns exact title matches first, then case-insensitive prefix matches.
	SearchByTitle(ctx context.Context, title string, limit int64) ([]db_models.Place, error)
	// EnsureIndexes creates the unique contentId index used by UpsertMany.
	EnsureIndexes(ctx context.Context) error
	// UpsertMany writes places keyed by contentId and reports how many were new.
	UpsertMany(ctx context.Context, places []db_models.Place) (*PlaceUpsertResult, error)
}

type PlaceUpsertResult struct {
	Inserted int64
	Updated  int64
}

type placeRepository struct {
	coll *mongo.Collection
}

func NewPlaceRepository(db *mongo.Database, collection string) PlaceRepository {
	return &placeRepository{coll: db.Collection(collection)}
}

func (p *placeRepository) SearchByTitle(ctx context.Context, title string, limit int64) ([]db_models.Place, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	exact, err := p.find(ctx, bson.M{"title": title}, limit)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return exact, nil
	}

	prefix := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(title), Options: "i"}
	return p.find(ctx, bson.M{"title": prefix}, limit)
}

func (p *placeRepository) find(ctx context.Context, filter bson.M, limit int64) ([]db_models.Place, error) {
	filter["coordinates"] = bson.M{"$exists": true}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := p.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("place catalog find: %w", err)
	}
	defer cursor.Close(ctx)

	var places []db_models.Place
	if err := cursor.All(ctx, &places); err != nil {
		return nil, fmt.Errorf("place catalog decode: %w", err)
	}
	return places, nil
}

func (p *placeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("place catalog index: %w", err)
	}
	return nil
}

func (p *placeRepository) UpsertMany(ctx context.Context, places []db_models.Place) (*PlaceUpsertResult, error) {
	if len(places) == 0 {
		return &PlaceUpsertResult{}, nil
	}

	models := make([]mongo.WriteModel, 0, len(places))
	for _, place := range places {
		set := bson.M{
			"title":       place.Title,
			"category":    place.Category,
			"address":     place.Address,
			"coordinates": place.Coordinates,
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"contentId": place.ContentID}).
			SetUpdate(bson.M{"$set": set}).
			SetUpsert(true))
	}

	res, err := p.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if res == nil {
		return nil, fmt.Errorf("place catalog upsert: %w", err)
	}
	out := &PlaceUpsertResult{Inserted: res.UpsertedCount, Updated: res.MatchedCount}
	if err != nil {
		return out, fmt.Errorf("place catalog upsert: %w", err)
	}
	return out, nil
}

package mongodb

import (
	"context"
	"errors"
	"time"

	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/region/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "region"

type RegionRepository struct {
	coll *mongo.Collection
}

func NewRegionRepository(db *mongo.Database) *RegionRepository {
	return &RegionRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *RegionRepository) LoadRegion(ctx context.Context, name string) (*domain.Region, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb region collection is nil")
	}

	var doc model.RegionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == nil {
		return model.DocToRegion(doc), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, app.ErrRegionNotFound.WithData("region", name)
	}
	return nil, err
}

func (r *RegionRepository) SaveRegion(ctx context.Context, region *domain.Region) error {
	if region == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb region collection is nil")
	}
	if err := region.Validate(); err != nil {
		return err
	}

	doc := model.RegionToDoc(region, time.Now())
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.Name},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return app.ErrUnavailable.WithReason(app.ReasonRegionWriteFail).WithData("region", region.Name).WithCause(err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/estatedesk/estatedesk/internal/property/model"
)

// MongoRepo implements a MongoDB-backed repository for properties.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps the collection and ensures lookup indexes: unique sparse
// indexes on the two identifiers, a 2dsphere index for the location and a
// plain index on the geohash cell.
func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	ctx := context.Background()
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title_number", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "survey_plan_number", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "geohash", Value: 1}}},
	})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, p *model.Property) (*model.Property, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIdentifier matches on title number OR survey plan number; a match on
// either identifier qualifies.
func (m *MongoRepo) FindByIdentifier(ctx context.Context, titleNumber, surveyPlanNumber string) (*model.Property, error) {
	or := bson.A{}
	if titleNumber != "" {
		or = append(or, bson.M{"title_number": titleNumber})
	}
	if surveyPlanNumber != "" {
		or = append(or, bson.M{"survey_plan_number": surveyPlanNumber})
	}
	if len(or) == 0 {
		return nil, ErrNotFound
	}
	var p model.Property
	if err := m.col.FindOne(ctx, bson.M{"$or": or}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) List(ctx context.Context, f Filter) ([]*model.Property, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["verification_status"] = f.Status
	}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.GeohashPrefix != "" {
		filter["geohash"] = bson.M{"$regex": "^" + f.GeohashPrefix}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*model.Property{}
	for cur.Next(ctx) {
		var p model.Property
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

// Save replaces the whole aggregate in one write so document updates, history
// appends and status recomputes become visible together.
func (m *MongoRepo) Save(ctx context.Context, p *model.Property) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

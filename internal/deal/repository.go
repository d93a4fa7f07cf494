package deal

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("deal not found")

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Stage    string
	DealType string
	AgentID  string
}

// Repository defines persistence operations for deals.
type Repository interface {
	Insert(ctx context.Context, d *Deal) (*Deal, error)
	FindByID(ctx context.Context, id string) (*Deal, error)
	List(ctx context.Context, f Filter) ([]*Deal, error)
	Save(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository wraps the collection and ensures pipeline query indexes.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "stage", Value: 1}}},
		{Keys: bson.D{{Key: "property_id", Value: 1}}},
		{Keys: bson.D{{Key: "lead_id", Value: 1}}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, d *Deal) (*Deal, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Deal, error) {
	var d Deal
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*Deal, error) {
	filter := bson.M{}
	if f.Stage != "" {
		filter["stage"] = f.Stage
	}
	if f.DealType != "" {
		filter["deal_type"] = f.DealType
	}
	if f.AgentID != "" {
		filter["agent_id"] = f.AgentID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Deal{}
	for cur.Next(ctx) {
		var d Deal
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Save(ctx context.Context, d *Deal) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryRepository is an in-memory Repository used in unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Deal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Deal)}
}

func (r *MemoryRepository) Insert(ctx context.Context, d *Deal) (*Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.store[d.ID] = cloneDeal(d)
	return d, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.store[id]; ok {
		return cloneDeal(d), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]*Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Deal{}
	for _, d := range r.store {
		if f.Stage != "" && d.Stage != f.Stage {
			continue
		}
		if f.DealType != "" && d.DealType != f.DealType {
			continue
		}
		if f.AgentID != "" && d.AgentID != f.AgentID {
			continue
		}
		out = append(out, cloneDeal(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Save(ctx context.Context, d *Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	r.store[d.ID] = cloneDeal(d)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func cloneDeal(d *Deal) *Deal {
	cp := *d
	cp.Documents = append([]Document(nil), d.Documents...)
	cp.ActivityLog = append(cp.ActivityLog[:0:0], d.ActivityLog...)
	return &cp
}

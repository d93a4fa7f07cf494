package lead

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

var ErrNotFound = errors.New("lead not found")

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Status        string
	Source        string
	AssignedAgent string
}

// Repository defines persistence operations for leads.
type Repository interface {
	Insert(ctx context.Context, l *Lead) (*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, f Filter) ([]*Lead, error)
	Save(ctx context.Context, l *Lead) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_agent", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, l *Lead) (*Lead, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*Lead, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.AssignedAgent != "" {
		filter["assigned_agent"] = f.AssignedAgent
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Lead{}
	for cur.Next(ctx) {
		var l Lead
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Save(ctx context.Context, l *Lead) error {
	l.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": l.ID}, l)
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
	store map[string]*Lead
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Lead)}
}

func (r *MemoryRepository) Insert(ctx context.Context, l *Lead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	r.store[l.ID] = cloneLead(l)
	return l, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.store[id]; ok {
		return cloneLead(l), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Lead{}
	for _, l := range r.store {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if f.AssignedAgent != "" && l.AssignedAgent != f.AssignedAgent {
			continue
		}
		out = append(out, cloneLead(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Save(ctx context.Context, l *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[l.ID]; !ok {
		return ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	r.store[l.ID] = cloneLead(l)
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

func cloneLead(l *Lead) *Lead {
	cp := *l
	cp.PropertyInterest = append([]PropertyInterest(nil), l.PropertyInterest...)
	cp.CommunicationHistory = append(cp.CommunicationHistory[:0:0], l.CommunicationHistory...)
	cp.Notes = append([]Note(nil), l.Notes...)
	return &cp
}

package calendar

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

var ErrNotFound = errors.New("event not found")

const StatusScheduled = "scheduled"

// Statuses an event moves through from scheduling to its outcome.
var Statuses = map[string]bool{
	StatusScheduled: true,
	"in_progress":   true,
	"completed":     true,
	"cancelled":     true,
}

// RelatedTo points the event at the record it concerns.
type RelatedTo struct {
	Model string `bson:"model,omitempty" json:"model,omitempty"`
	ID    string `bson:"id,omitempty" json:"id,omitempty"`
}

// Event is a scheduled appointment, viewing or meeting.
type Event struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Start       time.Time  `bson:"start" json:"start"`
	End         time.Time  `bson:"end" json:"end"`
	Attendees   []string   `bson:"attendees" json:"attendees"`
	RelatedTo   *RelatedTo `bson:"related_to,omitempty" json:"related_to,omitempty"`
	Status      string     `bson:"status" json:"status"`
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Filter narrows List results to a time window and/or attendee.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Attendee string
}

// Repository defines persistence operations for calendar events.
type Repository interface {
	Insert(ctx context.Context, e *Event) (*Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, f Filter) ([]*Event, error)
	Save(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "start", Value: 1}}},
		{Keys: bson.D{{Key: "attendees", Value: 1}}},
	})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, e *Event) (*Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*Event, error) {
	filter := bson.M{}
	if f.From != nil || f.To != nil {
		window := bson.M{}
		if f.From != nil {
			window["$gte"] = *f.From
		}
		if f.To != nil {
			window["$lt"] = *f.To
		}
		filter["start"] = window
	}
	if f.Attendee != "" {
		filter["attendees"] = f.Attendee
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Save(ctx context.Context, e *Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
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
	store map[string]*Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Event)}
}

func (r *MemoryRepository) Insert(ctx context.Context, e *Event) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.store[e.ID] = cloneEvent(e)
	return e, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.store[id]; ok {
		return cloneEvent(e), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Event{}
	for _, e := range r.store {
		if f.From != nil && e.Start.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Start.Before(*f.To) {
			continue
		}
		if f.Attendee != "" && !contains(e.Attendees, f.Attendee) {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *MemoryRepository) Save(ctx context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[e.ID]; !ok {
		return ErrNotFound
	}
	e.UpdatedAt = time.Now().UTC()
	r.store[e.ID] = cloneEvent(e)
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

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func cloneEvent(e *Event) *Event {
	cp := *e
	cp.Attendees = append([]string(nil), e.Attendees...)
	if e.RelatedTo != nil {
		rel := *e.RelatedTo
		cp.RelatedTo = &rel
	}
	return &cp
}

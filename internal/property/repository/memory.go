package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estatedesk/estatedesk/internal/property/model"
)

// MemoryRepo is an in-memory repository used in unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Property
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*model.Property)}
}

func (m *MemoryRepo) Insert(ctx context.Context, p *model.Property) (*model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := clone(p)
	m.store[p.ID] = cp
	return p, nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return clone(p), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindByIdentifier(ctx context.Context, titleNumber, surveyPlanNumber string) (*model.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if titleNumber != "" && p.TitleNumber == titleNumber {
			return clone(p), nil
		}
		if surveyPlanNumber != "" && p.SurveyPlanNumber == surveyPlanNumber {
			return clone(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, f Filter) ([]*model.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.Property{}
	for _, p := range m.store {
		if f.Status != "" && p.VerificationStatus != f.Status {
			continue
		}
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.GeohashPrefix != "" && !strings.HasPrefix(p.Geohash, f.GeohashPrefix) {
			continue
		}
		out = append(out, clone(p))
	}
	// newest first, matching the Mongo sort
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) Save(ctx context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	m.store[p.ID] = clone(p)
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// clone copies the aggregate deeply enough that callers cannot mutate stored
// state through shared slices.
func clone(p *model.Property) *model.Property {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Documents = append([]model.Document(nil), p.Documents...)
	cp.HistoryLog = append(cp.HistoryLog[:0:0], p.HistoryLog...)
	cp.Location.Coordinates = append([]float64(nil), p.Location.Coordinates...)
	return &cp
}

package repository

import (
	"context"
	"errors"

	"github.com/estatedesk/estatedesk/internal/property/model"
)

var ErrNotFound = errors.New("property not found")

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Status        string
	OwnerID       string
	GeohashPrefix string
}

// Repository defines persistence operations for properties. Save replaces the
// whole aggregate so embedded documents and history commit in one write.
type Repository interface {
	Insert(ctx context.Context, p *model.Property) (*model.Property, error)
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindByIdentifier(ctx context.Context, titleNumber, surveyPlanNumber string) (*model.Property, error)
	List(ctx context.Context, f Filter) ([]*model.Property, error)
	Save(ctx context.Context, p *model.Property) error
	Delete(ctx context.Context, id string) error
}

package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/estatedesk/estatedesk/internal/authz"
)

var (
	ErrForbidden     = errors.New("not authorized")
	ErrInvalidSpan   = errors.New("event must end after it starts")
	ErrInvalidStatus = errors.New("invalid event status")
)

// Service implements calendar scheduling.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when scheduling an event.
type CreateInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	RelatedTo   *RelatedTo
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Event, error) {
	if !in.End.After(in.Start) {
		return nil, ErrInvalidSpan
	}
	e := &Event{
		Title:       in.Title,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		Attendees:   in.Attendees,
		RelatedTo:   in.RelatedTo,
		Status:      StatusScheduled,
		CreatedBy:   actor.ID,
	}
	return s.repo.Insert(ctx, e)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Event, error) {
	return s.repo.List(ctx, f)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
	RelatedTo   *RelatedTo
}

// Update applies field changes for the creator or an admin.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, e.CreatedBy) {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Start != nil {
		e.Start = *in.Start
	}
	if in.End != nil {
		e.End = *in.End
	}
	if in.Attendees != nil {
		e.Attendees = in.Attendees
	}
	if in.RelatedTo != nil {
		e.RelatedTo = in.RelatedTo
	}
	if !e.End.After(e.Start) {
		return nil, ErrInvalidSpan
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateStatus moves an event through its workflow. Unlike field updates,
// attendees may also change the status (declining or completing a viewing
// they were invited to).
func (s *Service) UpdateStatus(ctx context.Context, actor authz.Actor, id, status string) (*Event, error) {
	if !Statuses[status] {
		return nil, ErrInvalidStatus
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	involved := append([]string{e.CreatedBy}, e.Attendees...)
	if !authz.CanMutate(actor, false, involved...) {
		return nil, ErrForbidden
	}

	e.Status = status
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an event for the creator or an admin.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, false, e.CreatedBy) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

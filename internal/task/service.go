package task

import (
	"context"
	"errors"
	"time"

	"github.com/estatedesk/estatedesk/internal/authz"
)

var (
	ErrForbidden       = errors.New("not authorized")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Service implements task management.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when creating a task. The creating
// user becomes the assigner.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	AssignedTo  string
	RelatedTo   *RelatedTo
	Reminders   []Reminder
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Task, error) {
	if in.Priority != "" && !Priorities[in.Priority] {
		return nil, ErrInvalidPriority
	}
	t := &Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      StatusPending,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  actor.ID,
		RelatedTo:   in.RelatedTo,
		Reminders:   in.Reminders,
	}
	return s.repo.Insert(ctx, t)
}

func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns tasks matching the filter. Non-admins only ever see tasks
// assigned to them.
func (s *Service) List(ctx context.Context, actor authz.Actor, f Filter) ([]*Task, error) {
	if !actor.IsAdmin() {
		f.AssignedTo = actor.ID
	}
	return s.repo.List(ctx, f)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	AssignedTo  *string
	RelatedTo   *RelatedTo
}

// Update applies field changes. Admin, assignee or assigner.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, t.AssignedTo, t.AssignedBy) {
		return nil, ErrForbidden
	}

	if in.Priority != nil {
		if !Priorities[*in.Priority] {
			return nil, ErrInvalidPriority
		}
		t.Priority = *in.Priority
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.AssignedTo != nil {
		t.AssignedTo = *in.AssignedTo
	}
	if in.RelatedTo != nil {
		t.RelatedTo = in.RelatedTo
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus moves the task through its workflow. Admin or assignee only;
// the assigner cannot complete work on the assignee's behalf.
func (s *Service) UpdateStatus(ctx context.Context, actor authz.Actor, id, status string) (*Task, error) {
	if !Statuses[status] {
		return nil, ErrInvalidStatus
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, t.AssignedTo) {
		return nil, ErrForbidden
	}

	t.Status = status
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task. Admin or the assigner only.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, false, t.AssignedBy) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

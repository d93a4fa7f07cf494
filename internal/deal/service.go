package deal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/history"
)

var (
	ErrForbidden       = errors.New("not authorized")
	ErrInvalidStage    = errors.New("invalid deal stage")
	ErrInvalidType     = errors.New("invalid deal type")
	ErrPropertyMissing = errors.New("property not found")
	ErrLeadMissing     = errors.New("lead not found")
)

// RefCheck reports whether a referenced record exists. The service uses it to
// validate the property and lead ids on create without importing their
// packages.
type RefCheck func(ctx context.Context, id string) (bool, error)

// Service implements the deal pipeline.
type Service struct {
	repo           Repository
	propertyExists RefCheck
	leadExists     RefCheck
}

func NewService(repo Repository, propertyExists, leadExists RefCheck) *Service {
	return &Service{repo: repo, propertyExists: propertyExists, leadExists: leadExists}
}

// CreateInput carries the fields accepted when opening a deal. The acting
// agent becomes the responsible agent.
type CreateInput struct {
	PropertyID  string
	LeadID      string
	DealType    string
	Value       float64
	Commission  float64
	ClosingDate *time.Time
	Notes       string
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Deal, error) {
	if !Types[in.DealType] {
		return nil, ErrInvalidType
	}
	if ok, err := s.propertyExists(ctx, in.PropertyID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrPropertyMissing
	}
	if ok, err := s.leadExists(ctx, in.LeadID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrLeadMissing
	}

	d := &Deal{
		PropertyID:  in.PropertyID,
		LeadID:      in.LeadID,
		AgentID:     actor.ID,
		Stage:       StageNew,
		DealType:    in.DealType,
		Value:       in.Value,
		Commission:  in.Commission,
		ClosingDate: in.ClosingDate,
		Documents:   []Document{},
		Notes:       in.Notes,
		ActivityLog: history.Append(nil, history.ActionCreated, actor.ID, "New deal created"),
	}
	return s.repo.Insert(ctx, d)
}

func (s *Service) Get(ctx context.Context, id string) (*Deal, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns deals matching the filter. Agents only ever see their own
// deals; the caller-supplied agent filter is overridden for them.
func (s *Service) List(ctx context.Context, actor authz.Actor, f Filter) ([]*Deal, error) {
	if actor.Role == authz.RoleAgent {
		f.AgentID = actor.ID
	}
	return s.repo.List(ctx, f)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	Value       *float64
	Commission  *float64
	ClosingDate *time.Time
	Notes       *string
}

// Update applies field changes for the responsible agent or an admin.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Deal, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, d.AgentID) {
		return nil, ErrForbidden
	}

	changes := map[string]interface{}{}
	if in.Value != nil {
		d.Value = *in.Value
		changes["value"] = *in.Value
	}
	if in.Commission != nil {
		d.Commission = *in.Commission
		changes["commission"] = *in.Commission
	}
	if in.ClosingDate != nil {
		d.ClosingDate = in.ClosingDate
		changes["closing_date"] = *in.ClosingDate
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
		changes["notes"] = *in.Notes
	}

	d.ActivityLog = history.Append(d.ActivityLog, history.ActionUpdated, actor.ID,
		"Deal details updated", history.WithChanges(changes))
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateStage moves the deal through the pipeline and logs the transition.
func (s *Service) UpdateStage(ctx context.Context, actor authz.Actor, id, stage string) (*Deal, error) {
	if !Stages[stage] {
		return nil, ErrInvalidStage
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, d.AgentID) {
		return nil, ErrForbidden
	}

	d.ActivityLog = history.Append(d.ActivityLog, history.ActionStageUpdated, actor.ID,
		fmt.Sprintf("Deal stage updated from %s to %s", d.Stage, stage))
	d.Stage = stage

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DocumentInput describes a file attached to a deal.
type DocumentInput struct {
	Type  string
	URL   string
	Notes string
}

// AddDocument attaches a document for the responsible agent or an admin.
func (s *Service) AddDocument(ctx context.Context, actor authz.Actor, id string, in DocumentInput) (*Deal, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, d.AgentID) {
		return nil, ErrForbidden
	}

	d.Documents = append(d.Documents, Document{
		Type:       in.Type,
		URL:        in.URL,
		Notes:      in.Notes,
		UploadedBy: actor.ID,
		UploadedAt: time.Now().UTC(),
	})
	d.ActivityLog = history.Append(d.ActivityLog, history.ActionDocumentAdded, actor.ID,
		fmt.Sprintf("New %s document added", in.Type))

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a deal. Admin only.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if !authz.CanMutate(actor, true) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

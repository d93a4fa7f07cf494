package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/history"
)

var (
	ErrForbidden     = errors.New("not authorized")
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrInvalidSource = errors.New("invalid lead source")
)

// Service implements lead management.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when capturing a lead. The creating
// user becomes the assigned agent.
type CreateInput struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Source           string
	PropertyInterest []PropertyInterest
	Requirements     Requirements
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Lead, error) {
	if !Sources[in.Source] {
		return nil, ErrInvalidSource
	}
	l := &Lead{
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		Email:                strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:                strings.TrimSpace(in.Phone),
		Source:               in.Source,
		Status:               StatusNew,
		AssignedAgent:        actor.ID,
		PropertyInterest:     in.PropertyInterest,
		Requirements:         in.Requirements,
		CommunicationHistory: []history.Entry{},
		Notes:                []Note{},
	}
	return s.repo.Insert(ctx, l)
}

func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns leads matching the filter. Agents only ever see leads assigned
// to them.
func (s *Service) List(ctx context.Context, actor authz.Actor, f Filter) ([]*Lead, error) {
	if actor.Role == authz.RoleAgent {
		f.AssignedAgent = actor.ID
	}
	return s.repo.List(ctx, f)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	Status           *string
	PropertyInterest []PropertyInterest
	Requirements     *Requirements
}

// Update applies field changes for the assigned agent or an admin. A status
// change additionally appends a STATUS_CHANGE entry to the communication
// history.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Lead, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, l.AssignedAgent) {
		return nil, ErrForbidden
	}

	if in.Status != nil && *in.Status != l.Status {
		if !Statuses[*in.Status] {
			return nil, ErrInvalidStatus
		}
		l.CommunicationHistory = history.Append(l.CommunicationHistory, history.ActionStatusChange, actor.ID,
			fmt.Sprintf("Status updated from %s to %s", l.Status, *in.Status))
		l.Status = *in.Status
	}
	if in.FirstName != nil {
		l.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		l.LastName = *in.LastName
	}
	if in.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		l.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.PropertyInterest != nil {
		l.PropertyInterest = in.PropertyInterest
	}
	if in.Requirements != nil {
		l.Requirements = *in.Requirements
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// CommunicationInput describes a logged interaction with the lead.
type CommunicationInput struct {
	Channel string // email, call, meeting, message
	Notes   string
	Outcome string
}

// AddCommunication logs an interaction for the assigned agent or an admin.
func (s *Service) AddCommunication(ctx context.Context, actor authz.Actor, id string, in CommunicationInput) (*Lead, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, l.AssignedAgent) {
		return nil, ErrForbidden
	}

	l.CommunicationHistory = history.Append(l.CommunicationHistory, history.ActionCommunication, actor.ID,
		fmt.Sprintf("%s communication logged", in.Channel),
		history.WithNotes(in.Notes),
		history.WithChanges(map[string]interface{}{"channel": in.Channel, "outcome": in.Outcome}))

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddNote attaches a free-form note. Assigned agent or admin.
func (s *Service) AddNote(ctx context.Context, actor authz.Actor, id, content string) (*Lead, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, l.AssignedAgent) {
		return nil, ErrForbidden
	}

	l.Notes = append(l.Notes, Note{Content: content, CreatedBy: actor.ID, CreatedAt: time.Now().UTC()})
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AssignAgent hands the lead to another agent. Admin only.
func (s *Service) AssignAgent(ctx context.Context, actor authz.Actor, id, agentID string) (*Lead, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, true) {
		return nil, ErrForbidden
	}

	l.AssignedAgent = agentID
	l.CommunicationHistory = history.Append(l.CommunicationHistory, history.ActionAssignment, actor.ID,
		"Lead assigned to agent",
		history.WithChanges(map[string]interface{}{"agent_id": agentID}))

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a lead. Admin only.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if !authz.CanMutate(actor, true) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

package agent

import (
	"context"
	"errors"

	"github.com/estatedesk/estatedesk/internal/authz"
)

var (
	ErrForbidden     = errors.New("not authorized")
	ErrProfileExists = errors.New("agent profile already exists for this user")
	ErrInvalidStatus = errors.New("invalid agent status")
)

// Service manages agent profiles and their performance metrics.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when opening a profile.
type CreateInput struct {
	UserID          string
	LicenseNumber   string
	Specializations []string
	AreasServed     []string
	Bio             string
	ProfileImage    string
}

// Create opens a profile for a user. Agents open their own; admins can open
// one on anyone's behalf. Metrics start at zero.
func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Profile, error) {
	if !authz.CanMutate(actor, false, in.UserID) {
		return nil, ErrForbidden
	}
	if _, err := s.repo.FindByUserID(ctx, in.UserID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p := &Profile{
		UserID:          in.UserID,
		LicenseNumber:   in.LicenseNumber,
		Specializations: in.Specializations,
		AreasServed:     in.AreasServed,
		Bio:             in.Bio,
		ProfileImage:    in.ProfileImage,
		Status:          StatusActive,
	}
	return s.repo.Insert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	LicenseNumber   *string
	Specializations []string
	AreasServed     []string
	Bio             *string
	ProfileImage    *string
	Status          *string
}

// Update applies field changes for the profile's user or an admin.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, p.UserID) {
		return nil, ErrForbidden
	}

	if in.Status != nil {
		if !Statuses[*in.Status] {
			return nil, ErrInvalidStatus
		}
		p.Status = *in.Status
	}
	if in.LicenseNumber != nil {
		p.LicenseNumber = *in.LicenseNumber
	}
	if in.Specializations != nil {
		p.Specializations = in.Specializations
	}
	if in.AreasServed != nil {
		p.AreasServed = in.AreasServed
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.ProfileImage != nil {
		p.ProfileImage = *in.ProfileImage
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MetricsInput holds partial metric updates; nil pointers leave values alone.
type MetricsInput struct {
	TotalDeals         *int
	DealsClosed        *int
	TotalValue         *float64
	LeadConversionRate *float64
}

// UpdateMetrics merges metric values into the profile. Admin only; agents do
// not grade their own performance.
func (s *Service) UpdateMetrics(ctx context.Context, actor authz.Actor, id string, in MetricsInput) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, true) {
		return nil, ErrForbidden
	}

	if in.TotalDeals != nil {
		p.Performance.TotalDeals = *in.TotalDeals
	}
	if in.DealsClosed != nil {
		p.Performance.DealsClosed = *in.DealsClosed
	}
	if in.TotalValue != nil {
		p.Performance.TotalValue = *in.TotalValue
	}
	if in.LeadConversionRate != nil {
		p.Performance.LeadConversionRate = *in.LeadConversionRate
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a profile. Admin only.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if !authz.CanMutate(actor, true) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

package property

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/geo"
	"github.com/estatedesk/estatedesk/internal/history"
	"github.com/estatedesk/estatedesk/internal/property/repository"
	"github.com/estatedesk/estatedesk/pkg/metrics"
)

// coordinateToleranceMeters is how far submitted coordinates may sit from the
// recorded location before a verification check is flagged.
const coordinateToleranceMeters = 100

var (
	ErrNotFound           = errors.New("property not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrForbidden          = errors.New("not authorized")
	ErrMissingIdentifiers = errors.New("title number or survey plan number is required")
	ErrInvalidStatus      = errors.New("invalid verification status")
)

// Service implements the property lifecycle and verification subsystem.
type Service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when listing a property.
type CreateInput struct {
	OwnerName        string
	Email            string
	Phone            string
	TitleNumber      string
	SurveyPlanNumber string
	Address          string
	Lat              float64
	Lng              float64
	PropertyType     string
	Size             float64
	Price            float64
	Description      string
	Images           []string
}

// Create lists a new property. It always starts pending with a single CREATED
// history entry.
func (s *Service) Create(ctx context.Context, actor authz.Actor, in CreateInput) (*Property, error) {
	p := &Property{
		OwnerID:            actor.ID,
		OwnerName:          in.OwnerName,
		Email:              in.Email,
		Phone:              in.Phone,
		TitleNumber:        in.TitleNumber,
		SurveyPlanNumber:   in.SurveyPlanNumber,
		Address:            in.Address,
		Location:           NewPoint(in.Lat, in.Lng),
		Geohash:            geo.Cell(in.Lat, in.Lng),
		PropertyType:       in.PropertyType,
		Size:               in.Size,
		Price:              in.Price,
		Description:        in.Description,
		Images:             in.Images,
		Documents:          []Document{},
		VerificationStatus: StatusPending,
		HistoryLog:         history.Append(nil, history.ActionCreated, actor.ID, "Property listing created"),
	}
	return s.repo.Insert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f repository.Filter) ([]*Property, error) {
	return s.repo.List(ctx, f)
}

// UpdateInput holds optional field updates; nil pointers leave fields alone.
type UpdateInput struct {
	OwnerName    *string
	Email        *string
	Phone        *string
	Address      *string
	Lat          *float64
	Lng          *float64
	PropertyType *string
	Size         *float64
	Price        *float64
	Description  *string
	Images       []string
}

// Update applies field changes for the owner or an admin and records an
// UPDATED entry carrying the changed values.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, in UpdateInput) (*Property, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, p.OwnerID) {
		return nil, ErrForbidden
	}

	changes := map[string]interface{}{}
	setString := func(field string, dst *string, v *string) {
		if v != nil {
			*dst = *v
			changes[field] = *v
		}
	}
	setFloat := func(field string, dst *float64, v *float64) {
		if v != nil {
			*dst = *v
			changes[field] = *v
		}
	}
	setString("owner_name", &p.OwnerName, in.OwnerName)
	setString("email", &p.Email, in.Email)
	setString("phone", &p.Phone, in.Phone)
	setString("address", &p.Address, in.Address)
	setString("property_type", &p.PropertyType, in.PropertyType)
	setString("description", &p.Description, in.Description)
	setFloat("size", &p.Size, in.Size)
	setFloat("price", &p.Price, in.Price)
	if in.Images != nil {
		p.Images = in.Images
		changes["images"] = in.Images
	}
	if in.Lat != nil || in.Lng != nil {
		lat, lng := p.Location.Lat(), p.Location.Lng()
		if in.Lat != nil {
			lat = *in.Lat
		}
		if in.Lng != nil {
			lng = *in.Lng
		}
		p.Location = NewPoint(lat, lng)
		p.Geohash = geo.Cell(lat, lng)
		changes["coordinates"] = []float64{lng, lat}
	}

	p.HistoryLog = history.Append(p.HistoryLog, history.ActionUpdated, actor.ID,
		"Property details updated", history.WithChanges(changes))
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the property and with it its embedded documents and history.
// Owner or admin only.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, false, p.OwnerID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// VerifyByDetails looks a property up by title number OR survey plan number
// and, when coordinates are submitted, checks them against the recorded
// location. Read-only: it never writes a history entry.
func (s *Service) VerifyByDetails(ctx context.Context, titleNumber, surveyPlanNumber string, coords *Coordinates) (*Property, *VerificationResult, error) {
	if titleNumber == "" && surveyPlanNumber == "" {
		return nil, nil, ErrMissingIdentifiers
	}
	p, err := s.repo.FindByIdentifier(ctx, titleNumber, surveyPlanNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if coords != nil {
		distance := geo.DistanceMeters(coords.Lat, coords.Lng, p.Location.Lat(), p.Location.Lng())
		if distance > coordinateToleranceMeters {
			rounded := int(math.Round(distance))
			metrics.VerificationChecks.WithLabelValues(ResultFlagged).Inc()
			return p, &VerificationResult{
				Status:   ResultFlagged,
				Message:  "Property coordinates do not match the provided location",
				Distance: &rounded,
			}, nil
		}
	}

	metrics.VerificationChecks.WithLabelValues(ResultVerified).Inc()
	return p, &VerificationResult{
		Status:  ResultVerified,
		Message: "Property details match the records",
	}, nil
}

// DocumentInput describes an uploaded document.
type DocumentInput struct {
	Type      string
	Name      string
	URL       string
	ObjectKey string
}

// UploadDocument appends a pending document and a DOCUMENT_UPLOADED entry.
// Owner or admin only.
func (s *Service) UploadDocument(ctx context.Context, actor authz.Actor, id string, in DocumentInput) (*Property, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, false, p.OwnerID) {
		return nil, ErrForbidden
	}

	p.Documents = append(p.Documents, Document{
		Type:               in.Type,
		Name:               in.Name,
		URL:                in.URL,
		ObjectKey:          in.ObjectKey,
		VerificationStatus: StatusPending,
		UploadedBy:         actor.ID,
		UploadedAt:         time.Now().UTC(),
	})
	p.HistoryLog = history.Append(p.HistoryLog, history.ActionDocumentUploaded, actor.ID,
		fmt.Sprintf("New %s document uploaded: %s", in.Type, in.Name))

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// documentDecisions are the statuses a reviewer may assign to a document.
var documentDecisions = map[string]bool{
	StatusVerified: true,
	StatusRejected: true,
	StatusFlagged:  true,
}

// VerifyDocument records an admin's decision on one document, appends a
// DOCUMENT_VERIFIED entry and recomputes the property-level status. The whole
// sequence is applied in memory and committed with a single save.
func (s *Service) VerifyDocument(ctx context.Context, actor authz.Actor, id string, index int, status, notes string) (*Property, error) {
	if !documentDecisions[status] {
		return nil, ErrInvalidStatus
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, true) {
		return nil, ErrForbidden
	}
	if index < 0 || index >= len(p.Documents) {
		return nil, ErrDocumentNotFound
	}

	now := time.Now().UTC()
	doc := &p.Documents[index]
	doc.VerificationStatus = status
	doc.VerifiedBy = actor.ID
	doc.VerifiedAt = &now
	doc.VerificationNotes = notes

	p.HistoryLog = history.Append(p.HistoryLog, history.ActionDocumentVerified, actor.ID,
		fmt.Sprintf("Document %s verified with status: %s", doc.Name, status),
		history.WithNotes(notes))

	p.VerificationStatus = aggregateStatus(p)
	metrics.DocumentVerifications.WithLabelValues(status).Inc()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// aggregateStatus derives the property-level status from its documents:
// all verified wins, otherwise any rejection rejects, otherwise the prior
// status stands (no fall back to pending for mixed pending/flagged sets).
func aggregateStatus(p *Property) string {
	allVerified := true
	anyRejected := false
	for _, d := range p.Documents {
		if d.VerificationStatus != StatusVerified {
			allVerified = false
		}
		if d.VerificationStatus == StatusRejected {
			anyRejected = true
		}
	}
	if allVerified {
		return StatusVerified
	}
	if anyRejected {
		return StatusRejected
	}
	return p.VerificationStatus
}

// propertyStatuses are the values an admin override may set.
var propertyStatuses = map[string]bool{
	StatusPending:  true,
	StatusVerified: true,
	StatusRejected: true,
	StatusFlagged:  true,
}

// OverrideStatus sets the property-level status directly. Admin only; the
// override itself is logged.
func (s *Service) OverrideStatus(ctx context.Context, actor authz.Actor, id, status, notes string) (*Property, error) {
	if !propertyStatuses[status] {
		return nil, ErrInvalidStatus
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, true) {
		return nil, ErrForbidden
	}

	p.VerificationStatus = status
	p.HistoryLog = history.Append(p.HistoryLog, history.ActionVerificationUpdate, actor.ID,
		fmt.Sprintf("Verification status updated to %s", status),
		history.WithNotes(notes))

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

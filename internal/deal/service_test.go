package deal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/history"
)

var (
	admin      = authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}
	agent      = authz.Actor{ID: "agent-1", Role: authz.RoleAgent}
	otherAgent = authz.Actor{ID: "agent-2", Role: authz.RoleAgent}
)

func allExist(ctx context.Context, id string) (bool, error) { return true, nil }

func newService() *Service {
	return NewService(NewMemoryRepository(), allExist, allExist)
}

func createDeal(t *testing.T, svc *Service, actor authz.Actor) *Deal {
	t.Helper()
	d, err := svc.Create(context.Background(), actor, CreateInput{
		PropertyID: "prop-1",
		LeadID:     "lead-1",
		DealType:   TypeSale,
		Value:      25_000_000,
		Commission: 1_250_000,
	})
	require.NoError(t, err)
	return d
}

func TestCreateDeal(t *testing.T) {
	svc := newService()
	d := createDeal(t, svc, agent)

	assert.Equal(t, agent.ID, d.AgentID)
	assert.Equal(t, StageNew, d.Stage)
	require.Len(t, d.ActivityLog, 1)
	assert.Equal(t, history.ActionCreated, d.ActivityLog[0].Action)
}

func TestCreateDealValidatesReferences(t *testing.T) {
	missing := func(ctx context.Context, id string) (bool, error) { return false, nil }

	svc := NewService(NewMemoryRepository(), missing, allExist)
	_, err := svc.Create(context.Background(), agent, CreateInput{
		PropertyID: "nope", LeadID: "lead-1", DealType: TypeSale, Value: 1,
	})
	assert.ErrorIs(t, err, ErrPropertyMissing)

	svc = NewService(NewMemoryRepository(), allExist, missing)
	_, err = svc.Create(context.Background(), agent, CreateInput{
		PropertyID: "prop-1", LeadID: "nope", DealType: TypeSale, Value: 1,
	})
	assert.ErrorIs(t, err, ErrLeadMissing)
}

func TestCreateDealRejectsUnknownType(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), agent, CreateInput{
		PropertyID: "prop-1", LeadID: "lead-1", DealType: "barter", Value: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestAgentsOnlySeeTheirOwnDeals(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	mine := createDeal(t, svc, agent)
	createDeal(t, svc, otherAgent)

	list, err := svc.List(ctx, agent, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	// an agent cannot widen the filter to someone else's deals
	list, err = svc.List(ctx, agent, Filter{AgentID: otherAgent.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = svc.List(ctx, admin, Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateDealAuthz(t *testing.T) {
	svc := newService()
	d := createDeal(t, svc, agent)

	v := 30_000_000.0
	_, err := svc.Update(context.Background(), otherAgent, d.ID, UpdateInput{Value: &v})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(context.Background(), agent, d.ID, UpdateInput{Value: &v})
	require.NoError(t, err)
	assert.Equal(t, v, got.Value)
	last := got.ActivityLog[len(got.ActivityLog)-1]
	assert.Equal(t, history.ActionUpdated, last.Action)
	assert.Equal(t, v, last.Changes["value"])
}

func TestUpdateStage(t *testing.T) {
	svc := newService()
	d := createDeal(t, svc, agent)

	got, err := svc.UpdateStage(context.Background(), agent, d.ID, StageNegotiation)
	require.NoError(t, err)
	assert.Equal(t, StageNegotiation, got.Stage)
	last := got.ActivityLog[len(got.ActivityLog)-1]
	assert.Equal(t, history.ActionStageUpdated, last.Action)
	assert.Equal(t, "Deal stage updated from new to negotiation", last.Details)

	_, err = svc.UpdateStage(context.Background(), agent, d.ID, "limbo")
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = svc.UpdateStage(context.Background(), otherAgent, d.ID, StageAgreement)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddDocument(t *testing.T) {
	svc := newService()
	d := createDeal(t, svc, agent)

	got, err := svc.AddDocument(context.Background(), agent, d.ID, DocumentInput{
		Type: "contract", URL: "https://cdn.example.com/contract.pdf",
	})
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, agent.ID, got.Documents[0].UploadedBy)
	last := got.ActivityLog[len(got.ActivityLog)-1]
	assert.Equal(t, history.ActionDocumentAdded, last.Action)
	assert.Equal(t, "New contract document added", last.Details)

	_, err = svc.AddDocument(context.Background(), otherAgent, d.ID, DocumentInput{Type: "contract"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteDealAdminOnly(t *testing.T) {
	svc := newService()
	d := createDeal(t, svc, agent)

	// even the responsible agent cannot delete
	assert.ErrorIs(t, svc.Delete(context.Background(), agent, d.ID), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), admin, d.ID))

	_, err := svc.Get(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/authz"
)

var (
	admin    = authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}
	assigner = authz.Actor{ID: "agent-1", Role: authz.RoleAgent}
	assignee = authz.Actor{ID: "agent-2", Role: authz.RoleAgent}
	stranger = authz.Actor{ID: "agent-3", Role: authz.RoleAgent}
)

func createTask(t *testing.T, svc *Service) *Task {
	t.Helper()
	task, err := svc.Create(context.Background(), assigner, CreateInput{
		Title:      "Call the surveyor",
		Priority:   "high",
		AssignedTo: assignee.ID,
		RelatedTo:  &RelatedTo{Model: "property", ID: "prop-1"},
	})
	require.NoError(t, err)
	return task
}

func TestCreateTask(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	task := createTask(t, svc)

	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, assigner.ID, task.AssignedBy)
	assert.Equal(t, assignee.ID, task.AssignedTo)
}

func TestCreateTaskRejectsUnknownPriority(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.Create(context.Background(), assigner, CreateInput{
		Title: "x", AssignedTo: assignee.ID, Priority: "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestUpdateTaskAuthz(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	task := createTask(t, svc)
	title := "Call the surveyor today"

	// admin, assignee and assigner may all edit
	for _, actor := range []authz.Actor{admin, assignee, assigner} {
		_, err := svc.Update(context.Background(), actor, task.ID, UpdateInput{Title: &title})
		require.NoError(t, err)
	}

	_, err := svc.Update(context.Background(), stranger, task.ID, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusAssigneeOrAdmin(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	task := createTask(t, svc)

	// the assigner cannot complete the assignee's work
	_, err := svc.UpdateStatus(context.Background(), assigner, task.ID, StatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.UpdateStatus(context.Background(), assignee, task.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	got, err = svc.UpdateStatus(context.Background(), admin, task.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	_, err = svc.UpdateStatus(context.Background(), assignee, task.ID, "paused")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteAssignerOrAdmin(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	task := createTask(t, svc)

	// the assignee cannot delete a task given to them
	assert.ErrorIs(t, svc.Delete(context.Background(), assignee, task.ID), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), assigner, task.ID))

	_, err := svc.Get(context.Background(), task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNonAdminsOnlySeeAssignedTasks(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	mine := createTask(t, svc)
	_, err := svc.Create(ctx, assigner, CreateInput{Title: "Other", AssignedTo: stranger.ID})
	require.NoError(t, err)

	list, err := svc.List(ctx, assignee, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = svc.List(ctx, admin, Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListSortsByDueDate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	later := time.Now().UTC().Add(48 * time.Hour)
	soon := time.Now().UTC().Add(2 * time.Hour)
	t1, err := svc.Create(ctx, assigner, CreateInput{Title: "later", AssignedTo: assignee.ID, DueDate: &later})
	require.NoError(t, err)
	t2, err := svc.Create(ctx, assigner, CreateInput{Title: "soon", AssignedTo: assignee.ID, DueDate: &soon})
	require.NoError(t, err)

	list, err := svc.List(ctx, admin, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, t2.ID, list[0].ID)
	assert.Equal(t, t1.ID, list[1].ID)
}

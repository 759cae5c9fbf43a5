package activity

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminmodels "passreg/internal/admin/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

type fakeAdminDirectory struct {
	admins map[id.AdminID]*adminmodels.Admin
}

func (f *fakeAdminDirectory) FindByID(_ context.Context, adminID id.AdminID) (*adminmodels.Admin, error) {
	if admin, ok := f.admins[adminID]; ok {
		return admin, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "admin not found")
}

func TestListAllResolvesPerformers(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	logger := slog.New(slog.DiscardHandler)

	known, err := adminmodels.NewAdmin(id.NewAdminID(), "ivan@example.com", "Ivan", true, time.Now())
	require.NoError(t, err)
	gone := id.NewAdminID()

	dir := &fakeAdminDirectory{admins: map[id.AdminID]*adminmodels.Admin{known.ID: known}}
	svc := NewService(store, dir, logger)

	require.NoError(t, store.Append(ctx, Entry{
		Action: ActionPersonAutoDeactivated, EntityType: EntityPerson, EntityID: "p1",
	}))
	require.NoError(t, store.Append(ctx, Entry{
		Action: ActionGroupCreated, EntityType: EntityGroup, EntityID: "g1", PerformedBy: &known.ID,
	}))
	require.NoError(t, store.Append(ctx, Entry{
		Action: ActionGroupDeleted, EntityType: EntityGroup, EntityID: "g2", PerformedBy: &gone,
	}))

	views, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Newest first: deleted admin, known admin, system.
	assert.Equal(t, "admin", views[0].PerformedBy.Type)
	assert.Equal(t, gone.String(), views[0].PerformedBy.ID)
	assert.Empty(t, views[0].PerformedBy.Email, "vanished account degrades to id-only performer")

	assert.Equal(t, "admin", views[1].PerformedBy.Type)
	assert.Equal(t, "ivan@example.com", views[1].PerformedBy.Email)
	assert.Equal(t, "Ivan", views[1].PerformedBy.Name)

	assert.Equal(t, "system", views[2].PerformedBy.Type)
	assert.Empty(t, views[2].PerformedBy.ID)
}

func TestListAllResolvesDescriptions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := NewService(store, &fakeAdminDirectory{}, slog.New(slog.DiscardHandler))

	require.NoError(t, store.Append(ctx, Entry{
		Action: ActionPersonAutoDeactivated, EntityType: EntityPerson, EntityID: "p1",
	}))

	views, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Паспорт деактивирован автоматически: истёк срок действия", views[0].Description)
}

func TestPublisherSwallowsAppendFailure(t *testing.T) {
	svc := NewPublisher(failingStore{}, slog.New(slog.DiscardHandler))
	// Must not panic or propagate anything.
	svc.Log(context.Background(), ActionGroupCreated, EntityGroup, "g1", nil, nil)
}

type failingStore struct{}

func (failingStore) Append(context.Context, Entry) error { return assert.AnError }
func (failingStore) ListAll(context.Context) ([]Entry, error) {
	return nil, assert.AnError
}

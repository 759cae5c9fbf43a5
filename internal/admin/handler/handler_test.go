package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passreg/internal/activity"
	"passreg/internal/admin/service"
	"passreg/internal/admin/store"
	"passreg/internal/identity"
	"passreg/internal/platform/middleware"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/testutil"
)

// headerResolver authenticates by the X-Test-Email header against the admin
// directory, standing in for the JWT resolver.
type headerResolver struct {
	accounts identity.AccountDirectory
}

func (h *headerResolver) Resolve(ctx context.Context, r *http.Request) (identity.Identity, error) {
	email := r.Header.Get("X-Test-Email")
	if email == "" {
		return identity.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "missing test identity")
	}
	admin, err := h.accounts.Ensure(ctx, email, "Test", "")
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{
		AdminID:     admin.ID,
		Email:       admin.Email,
		Name:        admin.Name,
		IsMainAdmin: admin.IsMainAdmin,
		IsActive:    admin.IsActive,
	}, nil
}

type fixture struct {
	router *chi.Mux
	admins *store.InMemory
	svc    *service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	admins := store.NewInMemory()
	svc := service.New(admins, activity.NewPublisher(activity.NewInMemoryStore(), logger))

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(&headerResolver{accounts: svc}, logger))
		r.Use(middleware.RequireMainAdmin(logger))
		New(svc, logger).Register(r)
	})
	return &fixture{router: router, admins: admins, svc: svc}
}

func TestSetActiveRequiresMainAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// First Ensure call creates the main admin, second a regular one.
	main, err := f.svc.Ensure(ctx, "main@example.com", "Main", "")
	require.NoError(t, err)
	regular, err := f.svc.Ensure(ctx, "regular@example.com", "Regular", "")
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/admins/"+main.ID.String()+"/active",
		map[string]any{"is_active": false})
	req.Header.Set("X-Test-Email", regular.Email)
	rr := testutil.DoRequest(f.router, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)

	target, err := f.admins.FindByID(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, target.IsActive, "forbidden request must leave the target unchanged")
}

func TestSetActiveByMainAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	main, err := f.svc.Ensure(ctx, "main@example.com", "Main", "")
	require.NoError(t, err)
	regular, err := f.svc.Ensure(ctx, "regular@example.com", "Regular", "")
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/admins/"+regular.ID.String()+"/active",
		map[string]any{"is_active": false})
	req.Header.Set("X-Test-Email", main.Email)
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		IsActive bool `json:"is_active"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	assert.False(t, resp.IsActive)
}

func TestSetActiveRequiresBody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	main, err := f.svc.Ensure(ctx, "main@example.com", "Main", "")
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/admins/"+main.ID.String()+"/active",
		map[string]any{})
	req.Header.Set("X-Test-Email", main.Email)
	rr := testutil.DoRequest(f.router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListRejectsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	req := testutil.NewRequest(t, http.MethodGet, "/api/admins")
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDeactivatedAdminRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	main, err := f.svc.Ensure(ctx, "main@example.com", "Main", "")
	require.NoError(t, err)
	regular, err := f.svc.Ensure(ctx, "regular@example.com", "Regular", "")
	require.NoError(t, err)
	_, err = f.svc.SetActive(ctx, regular.ID, false, main.ID)
	require.NoError(t, err)

	req := testutil.NewRequest(t, http.MethodGet, "/api/admins")
	req.Header.Set("X-Test-Email", regular.Email)
	rr := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

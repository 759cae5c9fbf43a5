package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passreg/internal/group/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/httputil"
	"passreg/pkg/requestcontext"
)

// Service defines the group operations the handler needs.
type Service interface {
	Create(ctx context.Context, name string, createdBy id.AdminID) (*models.Group, error)
	Get(ctx context.Context, groupID id.GroupID) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Rename(ctx context.Context, groupID id.GroupID, name string, performedBy id.AdminID) (*models.Group, error)
	Delete(ctx context.Context, groupID id.GroupID, performedBy id.AdminID) error
}

// Handler wires the authenticated group management endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the group routes. The router passed in must already
// enforce authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/groups", h.handleList)
	r.Post("/api/groups", h.handleCreate)
	r.Get("/api/groups/{groupID}", h.handleGet)
	r.Put("/api/groups/{groupID}", h.handleRename)
	r.Delete("/api/groups/{groupID}", h.handleDelete)
}

type groupRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list groups",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[groupRequest](w, r)
	if !ok {
		return
	}

	group, err := h.service.Create(ctx, req.Name, requestcontext.AdminID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to create group",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, group)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, err := id.ParseGroupID(chi.URLParam(r, "groupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	group, err := h.service.Get(ctx, groupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, err := id.ParseGroupID(chi.URLParam(r, "groupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[groupRequest](w, r)
	if !ok {
		return
	}

	group, err := h.service.Rename(ctx, groupID, req.Name, requestcontext.AdminID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to rename group",
				"request_id", requestcontext.RequestID(ctx),
				"group_id", groupID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, err := id.ParseGroupID(chi.URLParam(r, "groupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, groupID, requestcontext.AdminID(ctx)); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to delete group",
				"request_id", requestcontext.RequestID(ctx),
				"group_id", groupID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

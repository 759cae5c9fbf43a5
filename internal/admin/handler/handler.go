package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/httputil"
	"passreg/pkg/requestcontext"
)

// Service defines the admin operations the handler needs.
type Service interface {
	List(ctx context.Context) ([]*models.Admin, error)
	SetActive(ctx context.Context, target id.AdminID, active bool, performedBy id.AdminID) (*models.Admin, error)
}

// Handler wires the main-admin-only account management endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the admin routes. The router passed in must already
// enforce authentication and the main-admin gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/admins", h.handleList)
	r.Put("/api/admins/{adminID}/active", h.handleSetActive)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admins, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list admins",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admins)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := id.ParseAdminID(chi.URLParam(r, "adminID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[setActiveRequest](w, r)
	if !ok {
		return
	}
	if req.IsActive == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "is_active is required"))
		return
	}

	admin, err := h.service.SetActive(ctx, target, *req.IsActive, requestcontext.AdminID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to toggle admin activation",
				"request_id", requestcontext.RequestID(ctx),
				"admin_id", target.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin)
}

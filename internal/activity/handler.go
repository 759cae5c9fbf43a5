package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passreg/pkg/platform/httputil"
	"passreg/pkg/requestcontext"
)

// Handler wires the activity log read endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the activity log routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/activity-logs", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.service.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list activity log",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

package activity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	adminmodels "passreg/internal/admin/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/sentinel"
)

// AdminDirectory resolves performer identities for the read side.
type AdminDirectory interface {
	FindByID(ctx context.Context, adminID id.AdminID) (*adminmodels.Admin, error)
}

// Performer is the resolved identity attached to a listed entry. Type is
// either "admin" or "system"; the system performer carries no further fields.
type Performer struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// EntryView is an audit entry enriched for the dashboard.
type EntryView struct {
	ID          uuid.UUID      `json:"id"`
	Action      Action         `json:"action"`
	Description string         `json:"description"`
	EntityType  EntityType     `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	PerformedBy Performer      `json:"performed_by"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Service is the read side of the audit trail.
type Service struct {
	store  Store
	admins AdminDirectory
	logger *slog.Logger
}

func NewService(store Store, admins AdminDirectory, logger *slog.Logger) *Service {
	return &Service{store: store, admins: admins, logger: logger}
}

// ListAll returns all entries newest-first, each enriched with its resolved
// performer. A system entry resolves to the "system" performer; an admin
// entry whose account can no longer be found degrades to an id-only
// performer rather than failing the listing.
func (s *Service) ListAll(ctx context.Context) ([]EntryView, error) {
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "activity log storage is unreachable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity entries")
	}

	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, EntryView{
			ID:          entry.ID,
			Action:      entry.Action,
			Description: Describe(entry.Action),
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			PerformedBy: s.resolvePerformer(ctx, entry.PerformedBy),
			Details:     entry.Details,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) resolvePerformer(ctx context.Context, performedBy *id.AdminID) Performer {
	if performedBy == nil {
		return Performer{Type: "system"}
	}
	admin, err := s.admins.FindByID(ctx, *performedBy)
	if err != nil {
		// The entry outlives the account; keep the id visible.
		return Performer{Type: "admin", ID: performedBy.String()}
	}
	return Performer{
		Type:  "admin",
		ID:    admin.ID.String(),
		Name:  admin.Name,
		Email: admin.Email,
	}
}

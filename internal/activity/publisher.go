package activity

import (
	"context"
	"log/slog"

	id "passreg/pkg/domain"
	"passreg/pkg/requestcontext"
)

// Publisher is the write side of the audit trail. Logging is best-effort
// relative to the mutation it accompanies: a failed append is reported to the
// server log but never propagated, so an audit-trail fault cannot block the
// registry itself.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Log appends one entry. performedBy nil means the system performed the
// action. The entry timestamp comes from the request-scoped clock.
func (p *Publisher) Log(ctx context.Context, action Action, entityType EntityType, entityID string, performedBy *id.AdminID, details map[string]any) {
	entry := Entry{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Details:     details,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := p.store.Append(ctx, entry); err != nil {
		p.logger.ErrorContext(ctx, "failed to append activity entry",
			"action", string(action),
			"entity_type", string(entityType),
			"entity_id", entityID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "passreg/pkg/domain"
)

// PostgresStore persists audit entries in the activity_log table. Each
// Append is a single INSERT, so the atomicity contract holds per statement.
//
// Schema:
//
//	CREATE TABLE activity_log (
//	    id           UUID PRIMARY KEY,
//	    action       TEXT NOT NULL,
//	    entity_type  TEXT NOT NULL,
//	    entity_id    TEXT NOT NULL,
//	    performed_by UUID NULL,
//	    details      JSONB NOT NULL DEFAULT '{}',
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}

	var performedBy any
	if entry.PerformedBy != nil {
		performedBy = uuid.UUID(*entry.PerformedBy)
	}

	const query = `
		INSERT INTO activity_log (id, action, entity_type, entity_id, performed_by, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.Action),
		string(entry.EntityType),
		entry.EntityID,
		performedBy,
		payload,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Entry, error) {
	const query = `
		SELECT id, action, entity_type, entity_id, performed_by, details, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query activity entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			performedBy sql.Null[uuid.UUID]
			payload     []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.EntityType, &entry.EntityID, &performedBy, &payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		if performedBy.Valid {
			adminID := id.AdminID(performedBy.V)
			entry.PerformedBy = &adminID
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal activity details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return entries, nil
}

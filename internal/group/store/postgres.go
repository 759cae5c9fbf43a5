package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"

	"passreg/internal/group/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// Postgres persists groups.
//
// Schema:
//
//	CREATE TABLE groups (
//	    id         UUID PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    created_by UUID REFERENCES admins (id),
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const groupColumns = "id, name, created_by, created_at, updated_at"

func scanGroup(row interface{ Scan(...any) error }) (*models.Group, error) {
	var (
		group     models.Group
		rawID     uuid.UUID
		createdBy sql.Null[uuid.UUID]
	)
	err := row.Scan(&rawID, &group.Name, &createdBy, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	group.ID = id.GroupID(rawID)
	if createdBy.Valid {
		adminID := id.AdminID(createdBy.V)
		group.CreatedBy = &adminID
	}
	return &group, nil
}

func (s *Postgres) Create(ctx context.Context, group *models.Group) error {
	const query = `
		INSERT INTO groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(group.ID), group.Name, nullableAdminID(group.CreatedBy),
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(s.db.QueryRowContext(ctx, query, uuid.UUID(groupID)))
}

func (s *Postgres) List(ctx context.Context) ([]*models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, connAware("query groups", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, connAware("iterate groups", err)
	}
	return groups, nil
}

// connAware tags connection-level failures so callers can report backend
// unavailability instead of a generic internal error.
func connAware(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Postgres) Update(ctx context.Context, group *models.Group) error {
	const query = `
		UPDATE groups
		SET name = $2, updated_at = $3
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(group.ID), group.Name, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update group rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, groupID id.GroupID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, uuid.UUID(groupID))
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullableAdminID(adminID *id.AdminID) any {
	if adminID == nil {
		return nil
	}
	return uuid.UUID(*adminID)
}

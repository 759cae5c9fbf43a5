package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// Postgres persists admin accounts.
//
// Schema:
//
//	CREATE TABLE admins (
//	    id            UUID PRIMARY KEY,
//	    email         TEXT NOT NULL UNIQUE,
//	    name          TEXT NOT NULL DEFAULT '',
//	    photo_url     TEXT NOT NULL DEFAULT '',
//	    is_main_admin BOOLEAN NOT NULL DEFAULT FALSE,
//	    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const adminColumns = "id, email, name, photo_url, is_main_admin, is_active, created_at, updated_at"

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	var (
		admin models.Admin
		rawID uuid.UUID
	)
	err := row.Scan(&rawID, &admin.Email, &admin.Name, &admin.PhotoURL, &admin.IsMainAdmin, &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	admin.ID = id.AdminID(rawID)
	return &admin, nil
}

func (s *Postgres) Create(ctx context.Context, admin *models.Admin) error {
	const query = `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(admin.ID), admin.Email, admin.Name, admin.PhotoURL,
		admin.IsMainAdmin, admin.IsActive, admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(s.db.QueryRowContext(ctx, query, uuid.UUID(adminID)))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return scanAdmin(s.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (s *Postgres) List(ctx context.Context) ([]*models.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, admin *models.Admin) error {
	const query = `
		UPDATE admins
		SET email = $2, name = $3, photo_url = $4, is_main_admin = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(admin.ID), admin.Email, admin.Name, admin.PhotoURL,
		admin.IsMainAdmin, admin.IsActive, admin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute runs validate-then-mutate inside a transaction with FOR UPDATE, so
// the checked state cannot change under the mutation.
func (s *Postgres) Execute(ctx context.Context, adminID id.AdminID, validate func(*models.Admin) error, apply func(*models.Admin)) (*models.Admin, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin admin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1 FOR UPDATE`
	admin, err := scanAdmin(tx.QueryRowContext(ctx, query, uuid.UUID(adminID)))
	if err != nil {
		return nil, err
	}
	if err := validate(admin); err != nil {
		return nil, err
	}
	apply(admin)

	const update = `
		UPDATE admins
		SET email = $2, name = $3, photo_url = $4, is_main_admin = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		uuid.UUID(admin.ID), admin.Email, admin.Name, admin.PhotoURL,
		admin.IsMainAdmin, admin.IsActive, admin.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update admin: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit admin tx: %w", err)
	}
	return admin, nil
}

func (s *Postgres) CountActiveMainAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins WHERE is_main_admin AND is_active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count main admins: %w", err)
	}
	return n, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"

	"passreg/internal/passport/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// Postgres persists passport records.
//
// Schema:
//
//	CREATE TABLE people (
//	    id              UUID PRIMARY KEY,
//	    public_id       TEXT NOT NULL UNIQUE,
//	    full_name       TEXT NOT NULL,
//	    birth_date      TIMESTAMPTZ NOT NULL,
//	    passport_number TEXT NOT NULL,
//	    expires_at      TIMESTAMPTZ NOT NULL,
//	    notes           TEXT NOT NULL DEFAULT '',
//	    group_id        UUID NOT NULL REFERENCES groups (id),
//	    status          BOOLEAN NOT NULL,
//	    photo_url       TEXT NOT NULL DEFAULT '',
//	    qr_code_url     TEXT NOT NULL DEFAULT '',
//	    created_by      UUID REFERENCES admins (id),
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const personColumns = "id, public_id, full_name, birth_date, passport_number, expires_at, notes, group_id, status, photo_url, qr_code_url, created_by, created_at, updated_at"

func scanPerson(row interface{ Scan(...any) error }) (*models.Person, error) {
	var (
		person    models.Person
		rawID     uuid.UUID
		publicID  string
		rawGroup  uuid.UUID
		createdBy sql.Null[uuid.UUID]
	)
	err := row.Scan(
		&rawID, &publicID, &person.FullName, &person.BirthDate, &person.PassportNumber,
		&person.ExpiresAt, &person.Notes, &rawGroup, &person.Status,
		&person.PhotoURL, &person.QRCodeURL, &createdBy, &person.CreatedAt, &person.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	person.ID = id.PersonID(rawID)
	person.PublicID = id.PublicID(publicID)
	person.GroupID = id.GroupID(rawGroup)
	if createdBy.Valid {
		adminID := id.AdminID(createdBy.V)
		person.CreatedBy = &adminID
	}
	return &person, nil
}

func (s *Postgres) Create(ctx context.Context, person *models.Person) error {
	const query = `
		INSERT INTO people (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(person.ID), person.PublicID.String(), person.FullName, person.BirthDate,
		person.PassportNumber, person.ExpiresAt, person.Notes, uuid.UUID(person.GroupID),
		person.Status, person.PhotoURL, person.QRCodeURL, nullableAdminID(person.CreatedBy),
		person.CreatedAt, person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	const query = `SELECT ` + personColumns + ` FROM people WHERE id = $1`
	return scanPerson(s.db.QueryRowContext(ctx, query, uuid.UUID(personID)))
}

func (s *Postgres) FindByPublicID(ctx context.Context, publicID id.PublicID) (*models.Person, error) {
	const query = `SELECT ` + personColumns + ` FROM people WHERE public_id = $1`
	return scanPerson(s.db.QueryRowContext(ctx, query, publicID.String()))
}

// List returns all passport records, oldest first. Connection-level failures
// surface as ErrUnavailable so the service can report the backend as down
// rather than as a generic internal error.
func (s *Postgres) List(ctx context.Context) ([]*models.Person, error) {
	const query = `SELECT ` + personColumns + ` FROM people ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, connAware("query people", err)
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, connAware("iterate people", err)
	}
	return people, nil
}

func (s *Postgres) Update(ctx context.Context, person *models.Person) error {
	const query = `
		UPDATE people
		SET full_name = $2, birth_date = $3, passport_number = $4, expires_at = $5,
		    notes = $6, group_id = $7, status = $8, photo_url = $9, qr_code_url = $10,
		    updated_at = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(person.ID), person.FullName, person.BirthDate, person.PassportNumber,
		person.ExpiresAt, person.Notes, uuid.UUID(person.GroupID), person.Status,
		person.PhotoURL, person.QRCodeURL, person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, personID id.PersonID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, uuid.UUID(personID))
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountByGroup(ctx context.Context, groupID id.GroupID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people WHERE group_id = $1`, uuid.UUID(groupID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count people in group: %w", err)
	}
	return n, nil
}

// connAware tags connection-level failures with ErrUnavailable.
func connAware(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullableAdminID(adminID *id.AdminID) any {
	if adminID == nil {
		return nil
	}
	return uuid.UUID(*adminID)
}

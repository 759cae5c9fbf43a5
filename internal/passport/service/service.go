// Package service owns the passport lifecycle: creation with QR generation,
// admin edits, deletion with asset cleanup, and the expiration transition.
// Every state change emits exactly one activity entry. Creation is a short
// saga: record first, QR second, with a degraded path when rendering fails.
package service

import (
	"context"
	"errors"
	"log/slog"

	"passreg/internal/activity"
	groupmodels "passreg/internal/group/models"
	"passreg/internal/passport/metrics"
	"passreg/internal/passport/models"
	"passreg/internal/passport/publiccache"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/sentinel"
	"passreg/pkg/requestcontext"
)

// Store persists passport records.
type Store interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	FindByPublicID(ctx context.Context, publicID id.PublicID) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, personID id.PersonID) error
}

// GroupDirectory verifies group references on create and update.
type GroupDirectory interface {
	Get(ctx context.Context, groupID id.GroupID) (*groupmodels.Group, error)
}

// Assets is the photo and QR pipeline the lifecycle orchestrates.
type Assets interface {
	StorePhoto(ctx context.Context, data []byte, contentType string) (string, error)
	GenerateQRCode(ctx context.Context, publicID id.PublicID, baseURL string) (string, error)
	DeleteAsset(ctx context.Context, url string) error
}

// Service orchestrates passport operations.
type Service struct {
	people   Store
	groups   GroupDirectory
	assets   Assets
	cache    *publiccache.Cache
	activity *activity.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	baseURL  string
}

func New(people Store, groups GroupDirectory, assets Assets, cache *publiccache.Cache, publisher *activity.Publisher, m *metrics.Metrics, logger *slog.Logger, baseURL string) *Service {
	return &Service{
		people:   people,
		groups:   groups,
		assets:   assets,
		cache:    cache,
		activity: publisher,
		metrics:  m,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// Create validates the input, persists the record with a fresh public id,
// and renders its QR code. QR failure is degraded, not fatal: the record is
// kept with an empty QR URL and the failure goes to the log.
func (s *Service) Create(ctx context.Context, in models.CreateInput, performedBy id.AdminID) (*models.Person, error) {
	now := requestcontext.Now(ctx)

	publicID, err := id.NewPublicID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate public id")
	}
	person, err := models.NewPerson(id.NewPersonID(), publicID, in, performedBy, now)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	if in.Photo != nil {
		url, err := s.assets.StorePhoto(ctx, in.Photo.Data, in.Photo.ContentType)
		if err != nil {
			return nil, err
		}
		person.PhotoURL = url
	}

	if err := s.people.Create(ctx, person); err != nil {
		if person.PhotoURL != "" {
			if derr := s.assets.DeleteAsset(ctx, person.PhotoURL); derr != nil {
				s.logger.WarnContext(ctx, "failed to clean up photo after create failure",
					"photo_url", person.PhotoURL, "error", derr)
			}
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create passport")
	}

	qrURL, err := s.assets.GenerateQRCode(ctx, person.PublicID, s.baseURL)
	if err != nil {
		s.logger.ErrorContext(ctx, "qr code generation failed; passport kept without qr url",
			"person_id", person.ID.String(),
			"public_id", person.PublicID.String(),
			"error", err,
		)
	} else {
		person.QRCodeURL = qrURL
		if err := s.people.Update(ctx, person); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist qr url",
				"person_id", person.ID.String(), "error", err)
			person.QRCodeURL = ""
		}
	}

	s.activity.Log(ctx, activity.ActionPersonCreated, activity.EntityPerson, person.ID.String(), &performedBy, map[string]any{
		"full_name": person.FullName,
		"group_id":  person.GroupID.String(),
	})
	s.metrics.IncrementCreated()
	return person, nil
}

// Update applies admin-editable fields. The input struct cannot carry
// public id, QR URL, creator, or creation timestamp, so those survive any
// payload. A new photo replaces the old one; the old asset is removed
// best-effort. Unknown ids fail before any side effect, including logging.
func (s *Service) Update(ctx context.Context, personID id.PersonID, in models.UpdateInput, performedBy id.AdminID) (*models.Person, error) {
	person, err := s.Get(ctx, personID)
	if err != nil {
		return nil, err
	}

	if in.GroupID != nil && *in.GroupID != person.GroupID {
		if err := s.checkGroup(ctx, *in.GroupID); err != nil {
			return nil, err
		}
	}
	if err := in.Apply(person, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	oldPhoto := person.PhotoURL
	if in.Photo != nil {
		url, err := s.assets.StorePhoto(ctx, in.Photo.Data, in.Photo.ContentType)
		if err != nil {
			return nil, err
		}
		person.PhotoURL = url
	}

	if err := s.people.Update(ctx, person); err != nil {
		if in.Photo != nil {
			if derr := s.assets.DeleteAsset(ctx, person.PhotoURL); derr != nil {
				s.logger.WarnContext(ctx, "failed to clean up photo after update failure",
					"photo_url", person.PhotoURL, "error", derr)
			}
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "passport not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update passport")
	}

	if in.Photo != nil && oldPhoto != "" && oldPhoto != person.PhotoURL {
		if err := s.assets.DeleteAsset(ctx, oldPhoto); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced photo",
				"person_id", person.ID.String(), "photo_url", oldPhoto, "error", err)
		}
	}

	s.cache.Invalidate(ctx, person.PublicID)
	s.activity.Log(ctx, activity.ActionPersonUpdated, activity.EntityPerson, person.ID.String(), &performedBy, map[string]any{
		"full_name": person.FullName,
	})
	return person, nil
}

// Delete removes the record and its photo and QR assets. Asset removal is
// best-effort; a missing or undeletable asset never blocks record deletion.
func (s *Service) Delete(ctx context.Context, personID id.PersonID, performedBy id.AdminID) error {
	person, err := s.Get(ctx, personID)
	if err != nil {
		return err
	}

	for _, url := range []string{person.PhotoURL, person.QRCodeURL} {
		if url == "" {
			continue
		}
		if err := s.assets.DeleteAsset(ctx, url); err != nil {
			s.logger.WarnContext(ctx, "failed to delete passport asset",
				"person_id", person.ID.String(), "url", url, "error", err)
		}
	}

	if err := s.people.Delete(ctx, personID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "passport not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete passport")
	}

	s.cache.Invalidate(ctx, person.PublicID)
	s.activity.Log(ctx, activity.ActionPersonDeleted, activity.EntityPerson, person.ID.String(), &performedBy, map[string]any{
		"full_name": person.FullName,
	})
	return nil
}

// MarkExpired transitions an active passport to inactive. Already-inactive
// records transition nothing but the invocation is still logged; a nil
// performer marks the entry as produced by the system.
func (s *Service) MarkExpired(ctx context.Context, personID id.PersonID, performedBy *id.AdminID, details map[string]any) error {
	person, err := s.Get(ctx, personID)
	if err != nil {
		return err
	}

	if person.Status {
		person.Status = false
		person.UpdatedAt = requestcontext.Now(ctx)
		if err := s.people.Update(ctx, person); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "passport not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire passport")
		}
		s.cache.Invalidate(ctx, person.PublicID)
		s.metrics.IncrementExpired()
	}

	s.activity.Log(ctx, activity.ActionPersonAutoDeactivated, activity.EntityPerson, person.ID.String(), performedBy, details)
	return nil
}

// Get returns a single passport by internal id.
func (s *Service) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "passport not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up passport")
	}
	return person, nil
}

// GetByPublicID is the unauthenticated public page read. It consults the
// redis view cache when configured and falls back to the store.
func (s *Service) GetByPublicID(ctx context.Context, publicID id.PublicID) (*models.Person, error) {
	s.metrics.IncrementPublicView()

	if person, ok := s.cache.Get(ctx, publicID); ok {
		return person, nil
	}
	person, err := s.people.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "passport not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up passport")
	}
	s.cache.Set(ctx, person)
	return person, nil
}

// List returns all passports, oldest first. A storage backend outage is
// reported distinctly so operators see a connectivity problem, not a
// generic failure.
func (s *Service) List(ctx context.Context) ([]*models.Person, error) {
	people, err := s.people.List(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable,
				"passport storage backend is unreachable; verify the database is running and PASSREG_POSTGRES_URL is correct")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list passports")
	}
	return people, nil
}

func (s *Service) checkGroup(ctx context.Context, groupID id.GroupID) error {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeValidation, "group does not exist")
		}
		return err
	}
	return nil
}

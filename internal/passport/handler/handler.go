// Package handler exposes the passport HTTP surface. Create and update are
// multipart endpoints: an optional photo file plus form fields coerced to
// their semantic types (dates from 2006-01-02, booleans from the literal
// strings "true" and "false").
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"passreg/internal/assets"
	"passreg/internal/passport/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/httputil"
	"passreg/pkg/requestcontext"
)

// maxMultipartMemory bounds in-memory multipart buffering; larger parts
// spill to disk before the photo size cap rejects them.
const maxMultipartMemory = 8 << 20

const dateLayout = "2006-01-02"

// Service defines the passport operations the handler needs.
type Service interface {
	Create(ctx context.Context, in models.CreateInput, performedBy id.AdminID) (*models.Person, error)
	Update(ctx context.Context, personID id.PersonID, in models.UpdateInput, performedBy id.AdminID) (*models.Person, error)
	Delete(ctx context.Context, personID id.PersonID, performedBy id.AdminID) error
	Get(ctx context.Context, personID id.PersonID) (*models.Person, error)
	GetByPublicID(ctx context.Context, publicID id.PublicID) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
}

// Handler wires the passport endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated passport routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/people", h.handleList)
	r.Post("/api/people", h.handleCreate)
	r.Get("/api/people/{personID}", h.handleGet)
	r.Put("/api/people/{personID}", h.handleUpdate)
	r.Delete("/api/people/{personID}", h.handleDelete)
}

// RegisterPublic mounts the unauthenticated public page route. It must be
// attached outside any auth middleware.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/api/public/people/{publicID}", h.handleGetPublic)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	people, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list passports",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, people)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.service.Get(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

func (h *Handler) handleGetPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	publicID, err := id.ParsePublicID(chi.URLParam(r, "publicID"))
	if err != nil {
		// Malformed tokens look identical to unknown ones from outside.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "passport not found"))
		return
	}

	person, err := h.service.GetByPublicID(ctx, publicID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed public passport lookup",
				"request_id", requestcontext.RequestID(ctx),
				"public_id", publicID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := parseForm(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	in := models.CreateInput{
		FullName:       form.value("full_name"),
		PassportNumber: form.value("passport_number"),
		Notes:          form.value("notes"),
		Status:         true,
		Photo:          form.photo,
	}
	if v, ok := form.lookup("birth_date"); ok {
		if in.BirthDate, err = parseDate("birth_date", v); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if v, ok := form.lookup("expires_at"); ok {
		if in.ExpiresAt, err = parseDate("expires_at", v); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if v, ok := form.lookup("group_id"); ok {
		if in.GroupID, err = id.ParseGroupID(v); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if v, ok := form.lookup("status"); ok {
		if in.Status, err = parseBool("status", v); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	person, err := h.service.Create(ctx, in, requestcontext.AdminID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to create passport",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, person)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	form, err := parseForm(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	in := models.UpdateInput{Photo: form.photo}
	if v, ok := form.lookup("full_name"); ok {
		in.FullName = &v
	}
	if v, ok := form.lookup("passport_number"); ok {
		in.PassportNumber = &v
	}
	if v, ok := form.lookup("notes"); ok {
		in.Notes = &v
	}
	if v, ok := form.lookup("birth_date"); ok {
		t, err := parseDate("birth_date", v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		in.BirthDate = &t
	}
	if v, ok := form.lookup("expires_at"); ok {
		t, err := parseDate("expires_at", v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		in.ExpiresAt = &t
	}
	if v, ok := form.lookup("group_id"); ok {
		groupID, err := id.ParseGroupID(v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		in.GroupID = &groupID
	}
	if v, ok := form.lookup("status"); ok {
		status, err := parseBool("status", v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		in.Status = &status
	}

	person, err := h.service.Update(ctx, personID, in, requestcontext.AdminID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to update passport",
				"request_id", requestcontext.RequestID(ctx),
				"person_id", personID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, personID, requestcontext.AdminID(ctx)); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to delete passport",
				"request_id", requestcontext.RequestID(ctx),
				"person_id", personID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// passportForm is a parsed multipart request: coerced field values plus the
// optional photo part.
type passportForm struct {
	values map[string][]string
	photo  *models.PhotoUpload
}

func (f *passportForm) lookup(name string) (string, bool) {
	vs, ok := f.values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (f *passportForm) value(name string) string {
	v, _ := f.lookup(name)
	return v
}

func parseForm(r *http.Request) (*passportForm, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body must be multipart form data")
	}
	form := &passportForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		photo, perr := readPhoto(file, header)
		if perr != nil {
			return nil, perr
		}
		form.photo = photo
	case errors.Is(err, http.ErrMissingFile):
		// Photo is optional on both create and update.
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid photo file field")
	}
	return form, nil
}

func readPhoto(file multipart.File, header *multipart.FileHeader) (*models.PhotoUpload, error) {
	// Read one byte past the cap so the pipeline can tell "at the limit"
	// from "over it".
	data, err := io.ReadAll(io.LimitReader(file, assets.MaxPhotoBytes+1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read photo file")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &models.PhotoUpload{Data: data, ContentType: contentType}, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "%s must be a date formatted as %s", field, dateLayout)
	}
	return t, nil
}

func parseBool(field, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, dErrors.Newf(dErrors.CodeValidation, "%s must be the literal \"true\" or \"false\"", field)
	}
}

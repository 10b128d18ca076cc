// Package handler exposes the registry's repository contract over HTTP.
// One generic Resource serves every entity kind; the per-kind pieces are
// the attached validation and identifier accessors.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Constants for handler timeouts
const (
	DefaultTimeout     = 10 * time.Second
	LongRunningTimeout = 15 * time.Second
)

// Service is the use-case surface a Resource forwards to.
type Service[E any] interface {
	Create(ctx context.Context, entity E) (E, error)
	FindByID(ctx context.Context, id uuid.UUID) (E, error)
	FindAll(ctx context.Context) ([]E, error)
	FindBy(ctx context.Context, attribute, value string) ([]E, error)
	Update(ctx context.Context, entity E) (E, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Resource handles the HTTP requests for one entity kind.
type Resource[E any] struct {
	Name    string
	Service Service[E]

	// Validate normalizes the decoded entity and reports field errors.
	Validate func(*E) map[string]string
	// SetID bridges the generic update handler to the entity's
	// identifier field.
	SetID func(*E, uuid.UUID)

	Logger         *log.Logger
	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewResource creates a Resource with its helpers wired up.
func NewResource[E any](
	name string,
	service Service[E],
	validate func(*E) map[string]string,
	setID func(*E, uuid.UUID),
	logger *log.Logger,
) *Resource[E] {
	if logger == nil {
		logger = log.Default()
	}
	return &Resource[E]{
		Name:           name,
		Service:        service,
		Validate:       validate,
		SetID:          setID,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// CreateHandler handles the creation of a new entity.
func (h *Resource[E]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	var entity E
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	if validationErrors := h.Validate(&entity); len(validationErrors) > 0 {
		h.ErrorHandler.HandleValidationErrors(w, validationErrors)
		return
	}

	created, err := h.Service.Create(ctx, entity)
	if err != nil {
		h.ErrorHandler.HandleRepositoryError(w, err, "create")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, h.Name+" created successfully", created)
}

// ListHandler handles retrieval of all entities, or a filtered subset
// when an attribute query parameter is present.
func (h *Resource[E]) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	var (
		items []E
		err   error
	)

	if attribute := r.URL.Query().Get("attribute"); attribute != "" {
		items, err = h.Service.FindBy(ctx, attribute, r.URL.Query().Get("value"))
	} else {
		items, err = h.Service.FindAll(ctx)
	}
	if err != nil {
		h.ErrorHandler.HandleRepositoryError(w, err, "list")
		return
	}

	data := h.ResponseHelper.CreateListResponseData(items, len(items))
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, h.Name+" list retrieved", data)
}

// GetHandler handles the retrieval of a single entity by identifier.
func (h *Resource[E]) GetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ErrorHandler.ParseIdentifier(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	entity, err := h.Service.FindByID(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleRepositoryError(w, err, "get")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, h.Name+" retrieved", entity)
}

// UpdateHandler handles updating an existing entity.
func (h *Resource[E]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ErrorHandler.ParseIdentifier(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var entity E
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}
	h.SetID(&entity, id)

	if validationErrors := h.Validate(&entity); len(validationErrors) > 0 {
		h.ErrorHandler.HandleValidationErrors(w, validationErrors)
		return
	}

	updated, err := h.Service.Update(ctx, entity)
	if err != nil {
		h.ErrorHandler.HandleRepositoryError(w, err, "update")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, h.Name+" updated successfully", updated)
}

// DeleteHandler handles deleting an entity. A missing row is reported as
// not found rather than as an internal failure.
func (h *Resource[E]) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	id, ok := h.ErrorHandler.ParseIdentifier(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	removed, err := h.Service.Delete(ctx, id)
	if err != nil {
		h.ErrorHandler.HandleRepositoryError(w, err, "delete")
		return
	}
	if !removed {
		h.ErrorHandler.SendErrorResponse(w, http.StatusNotFound, h.Name+" not found", "NOT_FOUND", nil)
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, h.Name+" deleted successfully", nil)
}

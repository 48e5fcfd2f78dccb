package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachdesk/coachdesk-api/internal/store"
	appErrors "github.com/coachdesk/coachdesk-api/pkg/errors"
	"github.com/coachdesk/coachdesk-api/pkg/response"
)

// ResourceHandler serves plain CRUD for the presentational collections
// (courses, teachers, tests, marks, notes, attendance). These carry no
// lifecycle rules beyond what the store itself enforces, so one generic
// handler covers them all.
type ResourceHandler[T store.Entity[T]] struct {
	collection *store.Collection[T]
}

// NewResourceHandler constructs a ResourceHandler over one collection.
func NewResourceHandler[T store.Entity[T]](collection *store.Collection[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{collection: collection}
}

// Register mounts the CRUD routes on the given group.
func (h *ResourceHandler[T]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns the full collection.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.collection.List(), nil)
}

// Get returns one record by id.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	record, ok := h.collection.Find(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create appends a new record, letting the collection fill generated
// defaults.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.collection.Add(record)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create record"))
		return
	}
	response.Created(c, created)
}

// Update replaces the record matching id, keeping its identifier.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	id := c.Param("id")
	updated, ok := h.collection.Update(id, func(r *T) {
		*r = record.WithID(id)
	})
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete removes the record matching id.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	if !h.collection.Remove(c.Param("id")) {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.NoContent(c)
}

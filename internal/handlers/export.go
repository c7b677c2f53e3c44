package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/export"
	"dealer-admin-backend/internal/models"
	"dealer-admin-backend/internal/session"
)

type ExportHandler struct {
	store       *session.Store
	builder     *document.Builder
	coordinator *export.Coordinator
}

func NewExportHandler(store *session.Store, builder *document.Builder, coordinator *export.Coordinator) *ExportHandler {
	return &ExportHandler{
		store:       store,
		builder:     builder,
		coordinator: coordinator,
	}
}

// Export godoc
// @Summary     Export the invoice document
// @Description Composes the canonical invoice document from the session's current state and renders it. Mode "print" returns the document inline with no side effects; mode "download" returns it as a named attachment and persists the invoice record in the background. Persistence failure surfaces as a session notice and never withholds the file.
// @Tags        export
// @Accept      json
// @Produce     application/pdf
// @Security    Bearer
// @Param       session_id path string true "Session ID (UUID)"
// @Param       request body models.ExportRequest true "Export mode"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /invoice-sessions/{session_id}/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return
	}

	s, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return
	}

	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Mode != "print" && req.Mode != "download" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown export mode", Message: req.Mode})
		return
	}

	// Synchronously available facts are read in their final state here;
	// the product image is best-effort and renders as a placeholder if
	// the embed has not resolved yet.
	admin, organizer := s.Signatures()
	productImage, _ := s.ProductImage()

	doc, err := h.builder.Build(s.Product(), s.Meta(), productImage, admin, organizer)
	if err != nil {
		if errors.Is(err, document.ErrMissingProductFacts) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:      "no product selected",
				Message:    "open the session with product facts before exporting",
				EmptyState: true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to compose document",
			Message: err.Error(),
		})
		return
	}

	var artifact *export.Artifact
	switch req.Mode {
	case "print":
		artifact, err = h.coordinator.Print(doc)
	case "download":
		artifact, err = h.coordinator.Download(doc, s.AddNotice)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to render document",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", artifact.Disposition, artifact.Filename))
	c.Header("Content-Length", strconv.Itoa(len(artifact.Data)))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/models"
	"dealer-admin-backend/internal/session"
)

type SessionsHandler struct {
	store *session.Store
}

func NewSessionsHandler(store *session.Store) *SessionsHandler {
	return &SessionsHandler{store: store}
}

// CreateSession godoc
// @Summary     Open an invoice session
// @Description Opens an invoice view for a product. The invoice number is generated once here and stays fixed for the session. The product image, when a URL is supplied, is resolved into embedded data in the background.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateSessionRequest true "Product facts and surface configuration"
// @Success     201 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /invoice-sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	backingW, backingH := 0, 0
	if req.Surfaces != nil {
		backingW = req.Surfaces.BackingWidth
		backingH = req.Surfaces.BackingHeight
	}

	s := h.store.Create(req.Product, req.ProductImageURL, backingW, backingH)

	c.JSON(http.StatusCreated, sessionResponse(s))
}

// GetSession godoc
// @Summary     Get invoice session state
// @Description Returns the session's invoice metadata, signature states, product image resolution status and any soft notices raised by detached work.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID (UUID)"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /invoice-sessions/{session_id} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// DeleteSession godoc
// @Summary     Close an invoice session
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID (UUID)"
// @Success     204 "No Content"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /invoice-sessions/{session_id} [delete]
func (h *SessionsHandler) DeleteSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	h.store.Delete(s.ID)
	c.Status(http.StatusNoContent)
}

func (h *SessionsHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return nil, false
	}

	s, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return nil, false
	}
	return s, true
}

func sessionResponse(s *session.Session) models.SessionResponse {
	admin, organizer := s.Signatures()
	img, resolved := s.ProductImage()
	meta := s.Meta()

	return models.SessionResponse{
		SessionID:     s.ID.String(),
		InvoiceNumber: meta.InvoiceNumber,
		InvoiceDate:   meta.InvoiceDate,
		HasProduct:    s.Product() != nil,
		ProductImage: models.ImageStatusResponse{
			Resolved: resolved,
			Embedded: !img.Empty(),
		},
		Signatures: map[string]models.SurfaceState{
			string(session.SurfaceAdmin):     surfaceState(admin),
			string(session.SurfaceOrganizer): surfaceState(organizer),
		},
		Notices:   s.Notices(),
		CreatedAt: s.CreatedAt,
	}
}

func surfaceState(snap document.SignatureSnapshot) models.SurfaceState {
	state := models.SurfaceState{Present: snap.Present}
	if snap.Present {
		capturedAt := snap.CapturedAt
		state.CapturedAt = &capturedAt
	}
	return state
}

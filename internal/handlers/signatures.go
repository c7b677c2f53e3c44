package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealer-admin-backend/internal/models"
	"dealer-admin-backend/internal/session"
	"dealer-admin-backend/internal/signature"
)

type SignaturesHandler struct {
	store *session.Store
}

func NewSignaturesHandler(store *session.Store) *SignaturesHandler {
	return &SignaturesHandler{store: store}
}

// Mouse and touch event names normalize onto the same four-state stream.
var eventTypes = map[string]signature.EventType{
	"down":       signature.EventDown,
	"mousedown":  signature.EventDown,
	"touchstart": signature.EventDown,
	"move":       signature.EventMove,
	"mousemove":  signature.EventMove,
	"touchmove":  signature.EventMove,
	"up":         signature.EventUp,
	"mouseup":    signature.EventUp,
	"touchend":   signature.EventUp,
	"leave":      signature.EventLeave,
	"mouseleave": signature.EventLeave,
}

// Stroke godoc
// @Summary     Apply a pointer event to a signature surface
// @Description Feeds one pointer/touch event into a surface's drawing state machine. Events for a surface other than the active one are ignored, never misapplied. Positions are given in on-screen coordinates together with the displayed size; the surface rescales them into canvas space.
// @Tags        signatures
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID (UUID)"
// @Param       surface path string true "Signature surface" Enums(admin, organizer)
// @Param       request body models.StrokeRequest true "Pointer event"
// @Success     200 {object} models.StrokeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /invoice-sessions/{session_id}/signatures/{surface}/strokes [post]
func (h *SignaturesHandler) Stroke(c *gin.Context) {
	s, surface, ok := h.lookup(c)
	if !ok {
		return
	}

	var req models.StrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	eventType, ok := eventTypes[req.Type]
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown event type", Message: req.Type})
		return
	}

	accepted, err := s.Stroke(surface, signature.PointerEvent{
		Type:          eventType,
		X:             req.X,
		Y:             req.Y,
		SurfaceLeft:   req.SurfaceLeft,
		SurfaceTop:    req.SurfaceTop,
		DisplayWidth:  req.DisplayWidth,
		DisplayHeight: req.DisplayHeight,
	})
	if err != nil && !errors.Is(err, signature.ErrSurfaceNotReady) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "stroke rejected", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.StrokeResponse{
		Accepted:      accepted,
		ActiveSurface: string(s.ActiveSurface()),
	})
}

// Clear godoc
// @Summary     Clear a signature surface
// @Description Erases the surface raster and resets its snapshot to absent. Valid in any drawing state.
// @Tags        signatures
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID (UUID)"
// @Param       surface path string true "Signature surface" Enums(admin, organizer)
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /invoice-sessions/{session_id}/signatures/{surface}/clear [post]
func (h *SignaturesHandler) Clear(c *gin.Context) {
	s, surface, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.ClearSignature(surface); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "clear rejected", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(s))
}

func (h *SignaturesHandler) lookup(c *gin.Context) (*session.Session, session.Surface, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return nil, "", false
	}

	surface, err := session.ParseSurface(c.Param("surface"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid surface", Message: err.Error()})
		return nil, "", false
	}

	s, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session not found",
			Message: err.Error(),
		})
		return nil, "", false
	}
	return s, surface, true
}

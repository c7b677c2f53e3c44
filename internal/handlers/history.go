package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealer-admin-backend/internal/database"
	"dealer-admin-backend/internal/models"
)

type HistoryHandler struct {
	dbClient *database.Client
}

func NewHistoryHandler(dbClient *database.Client) *HistoryHandler {
	return &HistoryHandler{dbClient: dbClient}
}

// ListHistory godoc
// @Summary     List archived invoice records
// @Description Returns the most recent invoice records written by the download path. Requires the optional database archive to be configured.
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       limit query int false "Maximum records to return" default(50)
// @Success     200 {object} models.HistoryResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /invoice-history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.dbClient.ListInvoiceRecords(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list invoice records",
			Message: err.Error(),
		})
		return
	}

	if records == nil {
		records = []models.InvoiceRecord{}
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Records: records})
}

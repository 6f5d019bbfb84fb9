package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"forex-data-service/internal/entity"
	"forex-data-service/internal/usecase"
)

// Defaults applied to absent request body fields.
const (
	defaultBaseCurrency  = "AED"
	defaultQuoteCurrency = "INR"
	defaultPeriod        = "1W"
)

type ForexHandler struct {
	usecase usecase.ForexUsecase
	logger  *logrus.Logger
}

func NewForexHandler(usecase usecase.ForexUsecase, logger *logrus.Logger) *ForexHandler {
	return &ForexHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetForexData handles POST /api/forex-data. The response body is a JSON
// array of {date, rate} pairs ascending by date, empty when no data exists
// in the requested window.
func (h *ForexHandler) GetForexData(c *gin.Context) {
	var req ForexDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Malformed forex-data request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Kind:    "validation",
			Message: "invalid request body, expected JSON with from, to and period",
		})
		return
	}

	if req.From == "" {
		req.From = defaultBaseCurrency
	}
	if req.To == "" {
		req.To = defaultQuoteCurrency
	}
	if req.Period == "" {
		req.Period = defaultPeriod
	}

	points, err := h.usecase.GetForexData(c.Request.Context(), req.From, req.To, req.Period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// SyncForexData handles GET /api/sync-forex-data. Repeated invocation is
// idempotent: the store upserts by (pair, date).
func (h *ForexHandler) SyncForexData(c *gin.Context) {
	summary, err := h.usecase.SyncForexData(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ForexHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, entity.ErrValidation):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, entity.ErrProvider):
		status, kind = http.StatusBadGateway, "provider"
	case errors.Is(err, entity.ErrStore):
		status, kind = http.StatusInternalServerError, "store"
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Request failed")
	}

	c.JSON(status, ErrorResponse{Kind: kind, Message: err.Error()})
}

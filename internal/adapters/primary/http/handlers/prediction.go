package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"wine-tier-service/internal/adapters/primary/http/dto"
	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/ports/output"
	"wine-tier-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetFormSchema(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToFormSchemaResponse(h.formSvc.Schema()))
}

func (h *Handler) GetModelSummary(c *gin.Context) {
	schema := h.formSvc.Schema()
	c.JSON(http.StatusOK, dto.ToModelSummaryResponse(h.artifact, schema.CategoriesAvailable, h.currency))
}

func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.predictionSvc.Predict(requestContext(c), req.ToInput())
	if err != nil {
		log.WithError(err).Error("predict price tier failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictResponse(result, h.currency))
}

func (h *Handler) ListPredictions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.PredictionFilter{
		Label:  c.Query("label"),
		Order:  c.Query("order"),
		Limit:  limit,
		Offset: offset,
	}
	if since := c.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since, want RFC3339"})
			return
		}
		filter.Since = &ts
	}

	records, total, err := h.predictionSvc.History(c.Request.Context(), filter)
	if err != nil {
		if !errors.Is(err, domain.ErrHistoryDisabled) {
			log.WithError(err).Error("list predictions failed")
		}
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PredictionRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.ToPredictionRecordResponse(rec))
	}

	c.JSON(http.StatusOK, dto.ListPredictionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetPrediction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction id"})
		return
	}

	rec, err := h.predictionSvc.GetPrediction(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionRecordResponse(rec))
}

// requestContext carries the request id into the service layer.
func requestContext(c *gin.Context) context.Context {
	return services.WithRequestID(c.Request.Context(), c.GetString("request_id"))
}

package handlers

import (
	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	artifact      *domain.ModelArtifact
	formSvc       *services.FormService
	predictionSvc *services.PredictionService
	currency      string
}

func New(
	artifact *domain.ModelArtifact,
	formSvc *services.FormService,
	predictionSvc *services.PredictionService,
	currency string,
) *Handler {
	return &Handler{
		artifact:      artifact,
		formSvc:       formSvc,
		predictionSvc: predictionSvc,
		currency:      currency,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Form
	r.GET("/form", h.GetFormSchema)
	r.GET("/model", h.GetModelSummary)

	// Predictions
	r.POST("/predict", h.Predict)
	r.POST("/predict/batch", h.PredictBatch)

	// History
	r.GET("/predictions", h.ListPredictions)
	r.GET("/predictions/:id", h.GetPrediction)
}

// RegisterPages mounts the interactive HTML form.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.ShowForm)
	r.POST("/", h.SubmitForm)
}

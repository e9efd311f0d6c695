package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wine-tier-service/internal/core/domain"
)

// ============================================================================
// Prediction History Repository
// ============================================================================

// PredictionRepository defines the contract for prediction history persistence
type PredictionRepository interface {
	// Create stores a prediction record
	Create(ctx context.Context, rec *domain.PredictionRecord) error

	// GetByID retrieves a prediction record by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PredictionRecord, error)

	// List lists prediction records with filtering
	List(ctx context.Context, filter PredictionFilter) ([]*domain.PredictionRecord, int, error)
}

// PredictionFilter defines filters for listing prediction records
type PredictionFilter struct {
	Label  string
	Since  *time.Time
	Order  string
	Limit  int
	Offset int
}

package domain

import "errors"

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound      = errors.New("model artifact not found")
	ErrInvalidArtifact       = errors.New("model artifact is invalid")
	ErrUnsupportedModel      = errors.New("unsupported model type")
	ErrCategoriesUnavailable = errors.New("category vocabulary not available")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPredictionFailed = errors.New("prediction failed")
	ErrFeatureMismatch  = errors.New("feature row does not match model schema")
	ErrEmptyBatch       = errors.New("batch contains no rows")
	ErrUnsupportedFile  = errors.New("unsupported file type, upload .xlsx or .csv")
)

// ============================================================================
// History Errors
// ============================================================================

var (
	ErrHistoryDisabled = errors.New("prediction history is disabled")
	ErrRecordNotFound  = errors.New("prediction record not found")
)

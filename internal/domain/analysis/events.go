package analysis

import (
	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// AggregateTypeOutfitAnalysis is the aggregate type of analyses
const AggregateTypeOutfitAnalysis = "OutfitAnalysis"

// Event type constants
const (
	EventTypeAnalysisCompleted = "outfit_analysis.completed"
	EventTypeAnalysisFailed    = "outfit_analysis.failed"
)

// AnalysisCompletedEvent is published when the analyzer produced a result
type AnalysisCompletedEvent struct {
	shared.BaseDomainEvent
	AnalysisID  uuid.UUID   `json:"analysis_id"`
	CaptureType CaptureType `json:"capture_type"`
	PieceCount  int         `json:"piece_count"`
	ModelUsed   string      `json:"model_used"`
	DurationMs  int64       `json:"duration_ms"`
}

// NewAnalysisCompletedEvent creates a new AnalysisCompletedEvent
func NewAnalysisCompletedEvent(a *OutfitAnalysis) *AnalysisCompletedEvent {
	return &AnalysisCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeAnalysisCompleted,
			AggregateTypeOutfitAnalysis,
			a.ID,
			a.UserID,
		),
		AnalysisID:  a.ID,
		CaptureType: a.CaptureType,
		PieceCount:  len(a.Pieces),
		ModelUsed:   a.ModelUsed,
		DurationMs:  a.DurationMs,
	}
}

// AnalysisFailedEvent is published when an analysis ends in failure
type AnalysisFailedEvent struct {
	shared.BaseDomainEvent
	AnalysisID uuid.UUID `json:"analysis_id"`
	Reason     string    `json:"reason"`
}

// NewAnalysisFailedEvent creates a new AnalysisFailedEvent
func NewAnalysisFailedEvent(a *OutfitAnalysis) *AnalysisFailedEvent {
	return &AnalysisFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeAnalysisFailed,
			AggregateTypeOutfitAnalysis,
			a.ID,
			a.UserID,
		),
		AnalysisID: a.ID,
		Reason:     a.ErrorMessage,
	}
}

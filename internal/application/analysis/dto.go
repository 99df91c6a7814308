package analysis

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/analysis"
)

// AnalyzeInput is one uploaded photo to analyze. UserID is optional:
// anonymous analyses are returned without being stored.
type AnalyzeInput struct {
	UserID   *uuid.UUID
	Image    []byte
	ItemType string
}

// AnalyzeOutput is the result of Analyze
type AnalyzeOutput struct {
	AnalysisID *uuid.UUID
	ImageURL   string
	ModelUsed  string
	DurationMs int64
	Result     *analysis.Result
}

// AnalysisListFilter holds the paging, ordering and status filter of ListAnalyses
type AnalysisListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending processing completed failed"`
	Sort     string `form:"sort" binding:"omitempty,oneof=created_at analyzed_at duration_ms"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// AnalysisResponse represents a stored analysis in API responses
type AnalysisResponse struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	ImageURL         string           `json:"image_url"`
	CaptureType      string           `json:"capture_type"`
	ProcessingStatus string           `json:"processing_status"`
	ModelUsed        string           `json:"model_used,omitempty"`
	DurationMs       int64            `json:"duration_ms,omitempty"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	CreatedItemID    *uuid.UUID       `json:"created_item_id,omitempty"`
	CreatedLookID    *uuid.UUID       `json:"created_look_id,omitempty"`
	AnalyzedAt       *time.Time       `json:"analyzed_at,omitempty"`
	RawAnalysis      json.RawMessage  `json:"raw_analysis,omitempty" swaggertype:"object"`
	Result           *analysis.Result `json:"result,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToAnalysisResponse converts a domain analysis. withResult adds the pieces,
// which list views leave out.
func ToAnalysisResponse(a *analysis.OutfitAnalysis, withResult bool) AnalysisResponse {
	resp := AnalysisResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		ImageURL:         a.ImageURL,
		CaptureType:      string(a.CaptureType),
		ProcessingStatus: string(a.Status),
		ModelUsed:        a.ModelUsed,
		DurationMs:       a.DurationMs,
		ErrorMessage:     a.ErrorMessage,
		CreatedItemID:    a.CreatedItemID,
		CreatedLookID:    a.CreatedLookID,
		AnalyzedAt:       a.AnalyzedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if withResult {
		resp.RawAnalysis = a.RawAnalysis
		if a.Status == analysis.StatusCompleted {
			resp.Result = a.Result()
		}
	}
	return resp
}

// ToAnalysisResponses converts a list of analyses without their pieces
func ToAnalysisResponses(list []analysis.OutfitAnalysis) []AnalysisResponse {
	out := make([]AnalysisResponse, len(list))
	for i := range list {
		out[i] = ToAnalysisResponse(&list[i], false)
	}
	return out
}

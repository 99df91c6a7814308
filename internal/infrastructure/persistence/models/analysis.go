package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// OutfitAnalysisModel is the persistence model for outfit_analyses
type OutfitAnalysisModel struct {
	OwnedAggregateModel
	ImageURL      string             `gorm:"type:text"`
	ImageKey      string             `gorm:"type:varchar(500)"`
	CaptureType   string             `gorm:"type:varchar(30);not null"`
	Status        string             `gorm:"column:processing_status;type:varchar(20);not null;index"`
	RawAnalysis   *string            `gorm:"type:jsonb"`
	LookMeta      *analysis.LookMeta `gorm:"type:jsonb"`
	ModelUsed     string             `gorm:"type:varchar(100)"`
	DurationMs    int64              `gorm:"not null;default:0"`
	ErrorMessage  string             `gorm:"type:text"`
	CreatedItemID *uuid.UUID         `gorm:"type:uuid"`
	CreatedLookID *uuid.UUID         `gorm:"type:uuid"`
	AnalyzedAt    *time.Time
	Pieces        []OutfitPieceModel `gorm:"foreignKey:AnalysisID"`
}

// TableName returns the table name for GORM
func (OutfitAnalysisModel) TableName() string {
	return "outfit_analyses"
}

// ToDomain converts the persistence model to a domain OutfitAnalysis
func (m *OutfitAnalysisModel) ToDomain() *analysis.OutfitAnalysis {
	a := &analysis.OutfitAnalysis{
		ImageURL:      m.ImageURL,
		ImageKey:      m.ImageKey,
		CaptureType:   analysis.CaptureType(m.CaptureType),
		Status:        analysis.ProcessingStatus(m.Status),
		LookMeta:      m.LookMeta,
		ModelUsed:     m.ModelUsed,
		DurationMs:    m.DurationMs,
		ErrorMessage:  m.ErrorMessage,
		CreatedItemID: m.CreatedItemID,
		CreatedLookID: m.CreatedLookID,
		AnalyzedAt:    m.AnalyzedAt,
		Pieces:        make([]analysis.OutfitPiece, len(m.Pieces)),
	}
	m.PopulateOwned(&a.OwnedAggregateRoot)
	if m.RawAnalysis != nil {
		a.RawAnalysis = json.RawMessage(*m.RawAnalysis)
	}
	for i := range m.Pieces {
		a.Pieces[i] = m.Pieces[i].ToDomain()
	}
	return a
}

// FromDomain populates the persistence model from a domain OutfitAnalysis, pieces excluded
func (m *OutfitAnalysisModel) FromDomain(a *analysis.OutfitAnalysis) {
	m.FromDomainOwned(a.OwnedAggregateRoot)
	m.ImageURL = a.ImageURL
	m.ImageKey = a.ImageKey
	m.CaptureType = string(a.CaptureType)
	m.Status = string(a.Status)
	m.RawAnalysis = nil
	if len(a.RawAnalysis) > 0 {
		raw := string(a.RawAnalysis)
		m.RawAnalysis = &raw
	}
	m.LookMeta = a.LookMeta
	m.ModelUsed = a.ModelUsed
	m.DurationMs = a.DurationMs
	m.ErrorMessage = a.ErrorMessage
	m.CreatedItemID = a.CreatedItemID
	m.CreatedLookID = a.CreatedLookID
	m.AnalyzedAt = a.AnalyzedAt
}

// OutfitPieceModel is the persistence model for outfit_pieces
type OutfitPieceModel struct {
	ID           uuid.UUID                `gorm:"type:uuid;primary_key"`
	AnalysisID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Position     int                      `gorm:"not null;default:0"`
	PieceType    string                   `gorm:"type:varchar(50);not null"`
	Name         string                   `gorm:"type:varchar(200)"`
	Attributes   analysis.PieceAttributes `gorm:"type:jsonb"`
	StyleTags    wardrobe.StringList      `gorm:"type:jsonb"`
	OccasionTags wardrobe.StringList      `gorm:"type:jsonb"`
	Seasonality  wardrobe.StringList      `gorm:"type:jsonb"`
	BoundingBox  *wardrobe.BoundingBox    `gorm:"type:jsonb"`
	CreatedAt    time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OutfitPieceModel) TableName() string {
	return "outfit_pieces"
}

// ToDomain converts the persistence model to a domain OutfitPiece
func (m *OutfitPieceModel) ToDomain() analysis.OutfitPiece {
	return analysis.OutfitPiece{
		ID:           m.ID,
		AnalysisID:   m.AnalysisID,
		Position:     m.Position,
		PieceType:    m.PieceType,
		Name:         m.Name,
		Attributes:   m.Attributes,
		StyleTags:    nonNilList(m.StyleTags),
		OccasionTags: nonNilList(m.OccasionTags),
		Seasonality:  nonNilList(m.Seasonality),
		BoundingBox:  m.BoundingBox,
		CreatedAt:    m.CreatedAt,
	}
}

// OutfitPieceModelsFromDomain builds the piece rows of an analysis
func OutfitPieceModelsFromDomain(a *analysis.OutfitAnalysis) []OutfitPieceModel {
	out := make([]OutfitPieceModel, len(a.Pieces))
	for i, p := range a.Pieces {
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		out[i] = OutfitPieceModel{
			ID:           p.ID,
			AnalysisID:   a.ID,
			Position:     p.Position,
			PieceType:    p.PieceType,
			Name:         p.Name,
			Attributes:   p.Attributes,
			StyleTags:    nonNilList(p.StyleTags),
			OccasionTags: nonNilList(p.OccasionTags),
			Seasonality:  nonNilList(p.Seasonality),
			BoundingBox:  p.BoundingBox,
			CreatedAt:    createdAt,
		}
	}
	return out
}

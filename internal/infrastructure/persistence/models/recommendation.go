package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// RecommendationRecordModel is the persistence model for recommendation_tracking
type RecommendationRecordModel struct {
	ID                 uuid.UUID               `gorm:"type:uuid;primary_key"`
	UserID             uuid.UUID               `gorm:"type:uuid;not null;index:idx_tracking_user_time,priority:1"`
	RecommendationID   string                  `gorm:"type:varchar(300);not null;index"`
	RecommendationType string                  `gorm:"type:varchar(30);not null"`
	ItemIDs            wardrobe.StringList     `gorm:"type:jsonb"`
	WeatherData        *recommendation.Weather `gorm:"type:jsonb"`
	Score              *float64
	Reason             string `gorm:"type:text"`
	WasWorn            bool   `gorm:"not null"`
	WornAt             *time.Time
	RecommendedAt      time.Time `gorm:"not null;index:idx_tracking_user_time,priority:2"`
	CreatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecommendationRecordModel) TableName() string {
	return "recommendation_tracking"
}

// ToDomain converts the persistence model to a domain Record
func (m *RecommendationRecordModel) ToDomain() *recommendation.Record {
	return &recommendation.Record{
		ID:               m.ID,
		UserID:           m.UserID,
		RecommendationID: m.RecommendationID,
		Type:             recommendation.Type(m.RecommendationType),
		ItemIDs:          nonNilList(m.ItemIDs),
		Weather:          m.WeatherData,
		Score:            m.Score,
		Reason:           m.Reason,
		WasWorn:          m.WasWorn,
		WornAt:           m.WornAt,
		RecommendedAt:    m.RecommendedAt,
	}
}

// FromDomain populates the persistence model from a domain Record
func (m *RecommendationRecordModel) FromDomain(r *recommendation.Record) {
	m.ID = r.ID
	m.UserID = r.UserID
	m.RecommendationID = r.RecommendationID
	m.RecommendationType = string(r.Type)
	m.ItemIDs = nonNilList(r.ItemIDs)
	m.WeatherData = r.Weather
	m.Score = r.Score
	m.Reason = r.Reason
	m.WasWorn = r.WasWorn
	m.WornAt = r.WornAt
	m.RecommendedAt = r.RecommendedAt
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.RecommendedAt
	}
}

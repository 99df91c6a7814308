package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRecommendationRepository implements recommendation.Repository using GORM
type GormRecommendationRepository struct {
	db *gorm.DB
}

// NewGormRecommendationRepository creates a new GormRecommendationRepository
func NewGormRecommendationRepository(db *gorm.DB) *GormRecommendationRepository {
	return &GormRecommendationRepository{db: db}
}

var _ recommendation.Repository = (*GormRecommendationRepository)(nil)

// Save creates or updates a record
func (r *GormRecommendationRepository) Save(ctx context.Context, record *recommendation.Record) error {
	model := &models.RecommendationRecordModel{}
	model.FromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a record by its row id
func (r *GormRecommendationRepository) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Record, error) {
	var model models.RecommendationRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindSince lists the records of a user recommended at or after since, newest first
func (r *GormRecommendationRepository) FindSince(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]recommendation.Record, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND recommended_at >= ?", userID, since).
		Order("recommended_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recordModels []models.RecommendationRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toRecords(recordModels), nil
}

// FindLatestByRecommendationID finds the newest record of a user for a recommendation id
func (r *GormRecommendationRepository) FindLatestByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*recommendation.Record, error) {
	var model models.RecommendationRecordModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
		Order("recommended_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByUser lists every record of a user, newest first
func (r *GormRecommendationRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]recommendation.Record, error) {
	var recordModels []models.RecommendationRecordModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recommended_at DESC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toRecords(recordModels), nil
}

// DeleteOlderThan removes records recommended before cutoff
func (r *GormRecommendationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recommended_at < ?", cutoff).
		Delete(&models.RecommendationRecordModel{})
	return result.RowsAffected, result.Error
}

func toRecords(recordModels []models.RecommendationRecordModel) []recommendation.Record {
	records := make([]recommendation.Record, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records
}

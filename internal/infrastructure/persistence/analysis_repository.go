package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAnalysisRepository implements analysis.Repository using GORM
type GormAnalysisRepository struct {
	db *gorm.DB
}

// NewGormAnalysisRepository creates a new GormAnalysisRepository
func NewGormAnalysisRepository(db *gorm.DB) *GormAnalysisRepository {
	return &GormAnalysisRepository{db: db}
}

var _ analysis.Repository = (*GormAnalysisRepository)(nil)

// FindByID finds an analysis with its pieces ordered by position
func (r *GormAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*analysis.OutfitAnalysis, error) {
	var model models.OutfitAnalysisModel
	err := r.db.WithContext(ctx).
		Preload("Pieces", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists the analyses of a user without their pieces
func (r *GormAnalysisRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]analysis.OutfitAnalysis, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OutfitAnalysisModel{}).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("processing_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter, analysisSortColumns, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var analysisModels []models.OutfitAnalysisModel
	if err := query.Find(&analysisModels).Error; err != nil {
		return nil, 0, err
	}

	out := make([]analysis.OutfitAnalysis, len(analysisModels))
	for i := range analysisModels {
		out[i] = *analysisModels[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an analysis and replaces its pieces
func (r *GormAnalysisRepository) Save(ctx context.Context, a *analysis.OutfitAnalysis) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &models.OutfitAnalysisModel{}
		model.FromDomain(a)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("analysis_id = ?", a.ID).Delete(&models.OutfitPieceModel{}).Error; err != nil {
			return err
		}
		pieces := models.OutfitPieceModelsFromDomain(a)
		if len(pieces) == 0 {
			return nil
		}
		return tx.Create(&pieces).Error
	})
}

// Delete removes an analysis and its pieces
func (r *GormAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", id).Delete(&models.OutfitPieceModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OutfitAnalysisModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FailStale marks analyses stuck in pending or processing since before cutoff as failed
func (r *GormAnalysisRepository) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OutfitAnalysisModel{}).
		Where("processing_status IN ? AND updated_at < ?",
			[]string{string(analysis.StatusPending), string(analysis.StatusProcessing)}, cutoff).
		Updates(map[string]any{
			"processing_status": string(analysis.StatusFailed),
			"error_message":     message,
			"updated_at":        time.Now(),
			"version":           gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"github.com/wardrobe/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutfitLookRepository implements wardrobe.OutfitLookRepository using GORM
type GormOutfitLookRepository struct {
	db *gorm.DB
}

// NewGormOutfitLookRepository creates a new GormOutfitLookRepository
func NewGormOutfitLookRepository(db *gorm.DB) *GormOutfitLookRepository {
	return &GormOutfitLookRepository{db: db}
}

var _ wardrobe.OutfitLookRepository = (*GormOutfitLookRepository)(nil)

func (r *GormOutfitLookRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Item")
}

// FindByID finds a look with its items ordered by position
func (r *GormOutfitLookRepository) FindByID(ctx context.Context, id uuid.UUID) (*wardrobe.OutfitLook, error) {
	var model models.OutfitLookModel
	if err := r.withItems(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists the looks of a user, newest first
func (r *GormOutfitLookRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]wardrobe.OutfitLook, error) {
	var lookModels []models.OutfitLookModel
	if err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lookModels).Error; err != nil {
		return nil, err
	}

	looks := make([]wardrobe.OutfitLook, len(lookModels))
	for i := range lookModels {
		looks[i] = *lookModels[i].ToDomain()
	}
	return looks, nil
}

// SaveWithItems stores the new items, the look and its links in one transaction
func (r *GormOutfitLookRepository) SaveWithItems(ctx context.Context, look *wardrobe.OutfitLook, newItems []*wardrobe.ClothingItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range newItems {
			if err := tx.Omit(clause.Associations).Save(models.ClothingItemModelFromDomain(item)).Error; err != nil {
				return err
			}
		}

		lookModel := &models.OutfitLookModel{}
		lookModel.FromDomain(look)
		if err := tx.Omit(clause.Associations).Save(lookModel).Error; err != nil {
			return err
		}

		if err := tx.Where("look_id = ?", look.ID).Delete(&models.LookItemModel{}).Error; err != nil {
			return err
		}
		links := models.LookItemModelsFromDomain(look)
		if len(links) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&links).Error
	})
}

// RecordWear bumps the wear counters of the user's looks that contain every item in itemIDs
func (r *GormOutfitLookRepository) RecordWear(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID, at time.Time) (int64, error) {
	itemIDs = uniqueUUIDs(itemIDs)
	if len(itemIDs) == 0 {
		return 0, nil
	}

	matching := r.db.Model(&models.LookItemModel{}).
		Select("look_id").
		Where("item_id IN ?", itemIDs).
		Group("look_id").
		Having("COUNT(DISTINCT item_id) = ?", len(itemIDs))

	result := r.db.WithContext(ctx).
		Model(&models.OutfitLookModel{}).
		Where("user_id = ? AND id IN (?)", userID, matching).
		Updates(map[string]any{
			"wear_count":   gorm.Expr("wear_count + 1"),
			"last_worn_at": gorm.Expr("CASE WHEN last_worn_at IS NULL OR last_worn_at < ? THEN ? ELSE last_worn_at END", at, at),
			"updated_at":   time.Now(),
			"version":      gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func uniqueUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

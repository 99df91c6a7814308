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

// GormClothingItemRepository implements wardrobe.ClothingItemRepository using GORM
type GormClothingItemRepository struct {
	db *gorm.DB
}

// NewGormClothingItemRepository creates a new GormClothingItemRepository
func NewGormClothingItemRepository(db *gorm.DB) *GormClothingItemRepository {
	return &GormClothingItemRepository{db: db}
}

var _ wardrobe.ClothingItemRepository = (*GormClothingItemRepository)(nil)

// FindByID finds an item by its ID, active or not
func (r *GormClothingItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*wardrobe.ClothingItem, error) {
	var model models.ClothingItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the active items among ids
func (r *GormClothingItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]wardrobe.ClothingItem, error) {
	if len(ids) == 0 {
		return []wardrobe.ClothingItem{}, nil
	}

	var itemModels []models.ClothingItemModel
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toClothingItems(itemModels), nil
}

// FindActiveByUser lists the active items of a user, newest first
func (r *GormClothingItemRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter wardrobe.ItemFilter) ([]wardrobe.ClothingItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true)

	if filter.PieceType != "" {
		query = query.Where("piece_type = ?", filter.PieceType)
	}
	if filter.Category != "" {
		query = applyCategory(query, filter.Category)
	}
	if filter.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}

	var itemModels []models.ClothingItemModel
	if err := query.Order("created_at DESC").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toClothingItems(itemModels), nil
}

// applyCategory restricts piece_type to the detailed types of a category.
// "other" matches every type no category claims.
func applyCategory(query *gorm.DB, category wardrobe.Category) *gorm.DB {
	if category != wardrobe.CategoryOther {
		types := wardrobe.PieceTypesOf(category)
		if len(types) == 0 {
			return query.Where("1 = 0")
		}
		return query.Where("piece_type IN ?", types)
	}

	known := make([]string, 0)
	for _, c := range wardrobe.AllCategories() {
		if c != wardrobe.CategoryOther {
			known = append(known, wardrobe.PieceTypesOf(c)...)
		}
	}
	return query.Where("piece_type NOT IN ?", known)
}

// ExistingIDs returns the subset of ids that are already stored
func (r *GormClothingItemRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ClothingItemModel{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Save creates or updates an item
func (r *GormClothingItemRepository) Save(ctx context.Context, item *wardrobe.ClothingItem) error {
	model := models.ClothingItemModelFromDomain(item)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// RecordWear increments wear_count and moves last_worn_at forward for every active id
func (r *GormClothingItemRepository) RecordWear(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.ClothingItemModel{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Updates(map[string]any{
			"wear_count":   gorm.Expr("wear_count + 1"),
			"last_worn_at": gorm.Expr("CASE WHEN last_worn_at IS NULL OR last_worn_at < ? THEN ? ELSE last_worn_at END", at, at),
			"updated_at":   time.Now(),
			"version":      gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func toClothingItems(itemModels []models.ClothingItemModel) []wardrobe.ClothingItem {
	items := make([]wardrobe.ClothingItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items
}

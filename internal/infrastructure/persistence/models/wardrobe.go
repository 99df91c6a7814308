package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
)

// ClothingItemModel is the persistence model for clothing_items
type ClothingItemModel struct {
	OwnedAggregateModel
	PieceType    string              `gorm:"type:varchar(50);not null;index"`
	Name         string              `gorm:"type:varchar(200);not null"`
	Colors       wardrobe.Colors     `gorm:"type:jsonb"`
	Material     string              `gorm:"type:varchar(100)"`
	Pattern      string              `gorm:"type:varchar(100)"`
	Fit          string              `gorm:"type:varchar(100)"`
	Details      wardrobe.StringList `gorm:"type:jsonb"`
	StyleTags    wardrobe.StringList `gorm:"type:jsonb"`
	OccasionTags wardrobe.StringList `gorm:"type:jsonb"`
	Seasonality  wardrobe.StringList `gorm:"type:jsonb"`
	ImageURL     string              `gorm:"type:text"`
	ThumbnailURL string              `gorm:"type:text"`
	Brand        string              `gorm:"type:varchar(100)"`
	PriceRange   string              `gorm:"type:varchar(50)"`
	Notes        string              `gorm:"type:text"`
	LastWornAt   *time.Time
	WearCount    int  `gorm:"not null;default:0"`
	IsFavorite   bool `gorm:"not null"`
	IsActive     bool `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ClothingItemModel) TableName() string {
	return "clothing_items"
}

// ToDomain converts the persistence model to a domain ClothingItem
func (m *ClothingItemModel) ToDomain() *wardrobe.ClothingItem {
	item := &wardrobe.ClothingItem{
		PieceType:    m.PieceType,
		Name:         m.Name,
		Colors:       m.Colors,
		Material:     m.Material,
		Pattern:      m.Pattern,
		Fit:          m.Fit,
		Details:      nonNilList(m.Details),
		StyleTags:    nonNilList(m.StyleTags),
		OccasionTags: nonNilList(m.OccasionTags),
		Seasonality:  nonNilList(m.Seasonality),
		ImageURL:     m.ImageURL,
		ThumbnailURL: m.ThumbnailURL,
		Brand:        m.Brand,
		PriceRange:   m.PriceRange,
		Notes:        m.Notes,
		LastWornAt:   m.LastWornAt,
		WearCount:    m.WearCount,
		IsFavorite:   m.IsFavorite,
		IsActive:     m.IsActive,
	}
	m.PopulateOwned(&item.OwnedAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain ClothingItem
func (m *ClothingItemModel) FromDomain(i *wardrobe.ClothingItem) {
	m.FromDomainOwned(i.OwnedAggregateRoot)
	m.PieceType = i.PieceType
	m.Name = i.Name
	m.Colors = i.Colors
	m.Material = i.Material
	m.Pattern = i.Pattern
	m.Fit = i.Fit
	m.Details = nonNilList(i.Details)
	m.StyleTags = nonNilList(i.StyleTags)
	m.OccasionTags = nonNilList(i.OccasionTags)
	m.Seasonality = nonNilList(i.Seasonality)
	m.ImageURL = i.ImageURL
	m.ThumbnailURL = i.ThumbnailURL
	m.Brand = i.Brand
	m.PriceRange = i.PriceRange
	m.Notes = i.Notes
	m.LastWornAt = i.LastWornAt
	m.WearCount = i.WearCount
	m.IsFavorite = i.IsFavorite
	m.IsActive = i.IsActive
}

// ClothingItemModelFromDomain creates a new persistence model from a domain ClothingItem
func ClothingItemModelFromDomain(i *wardrobe.ClothingItem) *ClothingItemModel {
	m := &ClothingItemModel{}
	m.FromDomain(i)
	return m
}

// OutfitLookModel is the persistence model for outfit_looks
type OutfitLookModel struct {
	OwnedAggregateModel
	Name            string                `gorm:"type:varchar(200);not null"`
	DominantStyle   wardrobe.StringList   `gorm:"type:jsonb"`
	OccasionTags    wardrobe.StringList   `gorm:"type:jsonb"`
	Seasonality     wardrobe.StringList   `gorm:"type:jsonb"`
	ColorPalette    wardrobe.ColorPalette `gorm:"type:jsonb"`
	PatternMix      wardrobe.StringList   `gorm:"type:jsonb"`
	Silhouette      string                `gorm:"type:varchar(100)"`
	LayeringLevel   int                   `gorm:"not null;default:1"`
	ImageURL        string                `gorm:"type:text"`
	ThumbnailURL    string                `gorm:"type:text"`
	Notes           string                `gorm:"type:text"`
	WeatherSuitable wardrobe.StringList   `gorm:"type:jsonb"`
	LastWornAt      *time.Time
	WearCount       int             `gorm:"not null;default:0"`
	Rating          int             `gorm:"not null;default:0"`
	IsFavorite      bool            `gorm:"not null"`
	Items           []LookItemModel `gorm:"foreignKey:LookID"`
}

// TableName returns the table name for GORM
func (OutfitLookModel) TableName() string {
	return "outfit_looks"
}

// ToDomain converts the persistence model to a domain OutfitLook.
// Items are converted when they were preloaded.
func (m *OutfitLookModel) ToDomain() *wardrobe.OutfitLook {
	look := &wardrobe.OutfitLook{
		Name:            m.Name,
		DominantStyle:   nonNilList(m.DominantStyle),
		OccasionTags:    nonNilList(m.OccasionTags),
		Seasonality:     nonNilList(m.Seasonality),
		ColorPalette:    m.ColorPalette,
		PatternMix:      nonNilList(m.PatternMix),
		Silhouette:      m.Silhouette,
		LayeringLevel:   m.LayeringLevel,
		ImageURL:        m.ImageURL,
		ThumbnailURL:    m.ThumbnailURL,
		Notes:           m.Notes,
		WeatherSuitable: nonNilList(m.WeatherSuitable),
		LastWornAt:      m.LastWornAt,
		WearCount:       m.WearCount,
		Rating:          m.Rating,
		IsFavorite:      m.IsFavorite,
		Items:           make([]wardrobe.LookItem, len(m.Items)),
	}
	m.PopulateOwned(&look.OwnedAggregateRoot)
	for i := range m.Items {
		look.Items[i] = m.Items[i].ToDomain()
	}
	look.SortItems()
	return look
}

// FromDomain populates the persistence model from a domain OutfitLook, items excluded
func (m *OutfitLookModel) FromDomain(l *wardrobe.OutfitLook) {
	m.FromDomainOwned(l.OwnedAggregateRoot)
	m.Name = l.Name
	m.DominantStyle = nonNilList(l.DominantStyle)
	m.OccasionTags = nonNilList(l.OccasionTags)
	m.Seasonality = nonNilList(l.Seasonality)
	m.ColorPalette = l.ColorPalette
	m.PatternMix = nonNilList(l.PatternMix)
	m.Silhouette = l.Silhouette
	m.LayeringLevel = l.LayeringLevel
	m.ImageURL = l.ImageURL
	m.ThumbnailURL = l.ThumbnailURL
	m.Notes = l.Notes
	m.WeatherSuitable = nonNilList(l.WeatherSuitable)
	m.LastWornAt = l.LastWornAt
	m.WearCount = l.WearCount
	m.Rating = l.Rating
	m.IsFavorite = l.IsFavorite
}

// LookItemModel is the persistence model for look_items
type LookItemModel struct {
	LookID      uuid.UUID             `gorm:"type:uuid;primaryKey"`
	ItemID      uuid.UUID             `gorm:"type:uuid;primaryKey;index"`
	Position    int                   `gorm:"not null;default:0"`
	BoundingBox *wardrobe.BoundingBox `gorm:"type:jsonb"`
	CreatedAt   time.Time             `gorm:"not null"`
	Item        *ClothingItemModel    `gorm:"foreignKey:ItemID"`
}

// TableName returns the table name for GORM
func (LookItemModel) TableName() string {
	return "look_items"
}

// ToDomain converts the persistence model to a domain LookItem
func (m *LookItemModel) ToDomain() wardrobe.LookItem {
	li := wardrobe.LookItem{
		LookID:      m.LookID,
		ItemID:      m.ItemID,
		Position:    m.Position,
		BoundingBox: m.BoundingBox,
	}
	if m.Item != nil {
		li.Item = m.Item.ToDomain()
	}
	return li
}

// LookItemModelsFromDomain builds the link rows of a look
func LookItemModelsFromDomain(l *wardrobe.OutfitLook) []LookItemModel {
	now := time.Now()
	out := make([]LookItemModel, len(l.Items))
	for i, li := range l.Items {
		out[i] = LookItemModel{
			LookID:      l.ID,
			ItemID:      li.ItemID,
			Position:    li.Position,
			BoundingBox: li.BoundingBox,
			CreatedAt:   now,
		}
	}
	return out
}

func nonNilList(l wardrobe.StringList) wardrobe.StringList {
	if l == nil {
		return wardrobe.StringList{}
	}
	return l
}

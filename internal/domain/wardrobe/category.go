package wardrobe

import "strings"

// Category is the main category a detailed piece type belongs to
type Category string

const (
	CategoryTop        Category = "top"
	CategoryBottom     Category = "bottom"
	CategoryOuterwear  Category = "outerwear"
	CategoryDress      Category = "dress"
	CategoryShoes      Category = "shoes"
	CategoryAccessory  Category = "accessory"
	CategoryFullOutfit Category = "full_outfit"
	CategoryOther      Category = "other"
)

var pieceTypeCategories = map[string]Category{
	"tshirt":      CategoryTop,
	"shirt":       CategoryTop,
	"blouse":      CategoryTop,
	"top":         CategoryTop,
	"tank_top":    CategoryTop,
	"sweater":     CategoryTop,
	"pullover":    CategoryTop,
	"hoodie":      CategoryTop,
	"cardigan":    CategoryTop,
	"pants":       CategoryBottom,
	"jeans":       CategoryBottom,
	"shorts":      CategoryBottom,
	"skirt":       CategoryBottom,
	"leggings":    CategoryBottom,
	"jacket":      CategoryOuterwear,
	"coat":        CategoryOuterwear,
	"blazer":      CategoryOuterwear,
	"vest":        CategoryOuterwear,
	"parka":       CategoryOuterwear,
	"dress":       CategoryDress,
	"jumpsuit":    CategoryDress,
	"shoes":       CategoryShoes,
	"sneakers":    CategoryShoes,
	"boots":       CategoryShoes,
	"sandals":     CategoryShoes,
	"heels":       CategoryShoes,
	"accessory":   CategoryAccessory,
	"bag":         CategoryAccessory,
	"hat":         CategoryAccessory,
	"scarf":       CategoryAccessory,
	"belt":        CategoryAccessory,
	"jewelry":     CategoryAccessory,
	"full_outfit": CategoryFullOutfit,
}

var categoryLabels = map[Category]string{
	CategoryTop:        "Hauts",
	CategoryBottom:     "Bas",
	CategoryOuterwear:  "Vestes & Manteaux",
	CategoryDress:      "Robes",
	CategoryShoes:      "Chaussures",
	CategoryAccessory:  "Accessoires",
	CategoryFullOutfit: "Tenues complètes",
	CategoryOther:      "Autres",
}

// CategoryOf returns the main category of a detailed piece type.
// Unknown piece types map to CategoryOther.
func CategoryOf(pieceType string) Category {
	if c, ok := pieceTypeCategories[strings.ToLower(strings.TrimSpace(pieceType))]; ok {
		return c
	}
	return CategoryOther
}

// Label returns the display label of the category
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryOther]
}

// IsValid checks if the category is one of the known main categories
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// PieceTypesOf returns every detailed piece type mapped to the category
func PieceTypesOf(c Category) []string {
	types := make([]string, 0)
	for pt, cat := range pieceTypeCategories {
		if cat == c {
			types = append(types, pt)
		}
	}
	return types
}

// AllCategories returns the main categories in display order
func AllCategories() []Category {
	return []Category{
		CategoryTop, CategoryBottom, CategoryOuterwear, CategoryDress,
		CategoryShoes, CategoryAccessory, CategoryFullOutfit, CategoryOther,
	}
}

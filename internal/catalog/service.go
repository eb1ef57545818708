// Package catalog owns item identity: article number assignment and the
// descriptive (type, color, size) attributes stock buckets key off.
package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
)

// DefaultCodeFloor keeps article numbers at a stable seven-digit width.
const DefaultCodeFloor uint = 1000000

// Register creates a new catalog item and assigns the next article
// number: max(highest existing code, floor-1) + 1, so codes are
// strictly increasing and never drop below the floor even when legacy
// rows carry smaller codes. Duplicate (type, color, size) tuples are
// rejected.
func Register(itemType, color, size string, floor uint) (*models.Item, error) {
	itemType = strings.TrimSpace(itemType)
	color = strings.TrimSpace(color)
	size = strings.TrimSpace(size)
	if itemType == "" || color == "" || size == "" {
		return nil, apperrors.Validationf("type, color and size are required")
	}
	if floor == 0 {
		floor = DefaultCodeFloor
	}

	var item models.Item
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Item{}).
			Where("type = ? AND color = ? AND size = ?", itemType, color, size).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrConflict
		}

		var maxCode uint
		if err := tx.Model(&models.Item{}).
			Select("COALESCE(MAX(code), 0)").
			Scan(&maxCode).Error; err != nil {
			return err
		}
		next := maxCode + 1
		if next < floor {
			next = floor
		}

		item = models.Item{Code: next, Type: itemType, Color: color, Size: size}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent register took the tuple or the code first.
				return apperrors.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Lookup fetches one item by article number.
func Lookup(code uint) (*models.Item, error) {
	var item models.Item
	err := database.DB.First(&item, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateAttrs holds the optional attribute changes for Update. Nil
// fields are left untouched; the article number never changes.
type UpdateAttrs struct {
	Type  *string
	Color *string
	Size  *string
}

func Update(code uint, attrs UpdateAttrs) (*models.Item, error) {
	item, err := Lookup(code)
	if err != nil {
		return nil, err
	}

	if attrs.Type != nil {
		item.Type = strings.TrimSpace(*attrs.Type)
	}
	if attrs.Color != nil {
		item.Color = strings.TrimSpace(*attrs.Color)
	}
	if attrs.Size != nil {
		item.Size = strings.TrimSpace(*attrs.Size)
	}
	if item.Type == "" || item.Color == "" || item.Size == "" {
		return nil, apperrors.Validationf("type, color and size must not be empty")
	}

	var count int64
	if err := database.DB.Model(&models.Item{}).
		Where("type = ? AND color = ? AND size = ? AND code <> ?", item.Type, item.Color, item.Size, code).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrConflict
	}

	if err := database.DB.Save(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return item, nil
}

// Remove deletes a catalog item. Items that still hold stock in any
// bucket or have open (unreturned) movements are refused: history must
// stay resolvable and physical garments must not vanish from the books.
func Remove(code uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, "code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var total int64
		if err := tx.Model(&models.StockBucket{}).
			Where("item_code = ?", code).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			return apperrors.ErrConflict
		}

		var open int64
		if err := tx.Model(&models.Movement{}).
			Where("item_code = ? AND returned_at IS NULL", code).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrConflict
		}

		if err := tx.Where("item_code = ?", code).Delete(&models.StockBucket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// Search does a case-insensitive substring match over the code (as
// text), type, color and size.
func Search(q string) ([]models.Item, error) {
	q = strings.TrimSpace(q)
	var items []models.Item
	if q == "" {
		err := database.DB.Order("code ASC").Find(&items).Error
		return items, err
	}

	pattern := "%" + strings.ToLower(q) + "%"
	err := database.DB.
		Where("CAST(code AS TEXT) LIKE ? OR LOWER(type) LIKE ? OR LOWER(color) LIKE ? OR LOWER(size) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("code ASC").
		Find(&items).Error
	return items, err
}

// List returns the whole catalog ordered by article number.
func List() ([]models.Item, error) {
	var items []models.Item
	err := database.DB.Order("code ASC").Find(&items).Error
	return items, err
}

// Options returns the distinct types, colors and sizes in use, for
// form dropdowns.
type OptionsResponse struct {
	Types  []string `json:"types"`
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

func Options() (*OptionsResponse, error) {
	opts := &OptionsResponse{Types: []string{}, Colors: []string{}, Sizes: []string{}}
	if err := database.DB.Model(&models.Item{}).Distinct("type").Order("type ASC").Pluck("type", &opts.Types).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Item{}).Distinct("color").Order("color ASC").Pluck("color", &opts.Colors).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Item{}).Distinct("size").Order("size ASC").Pluck("size", &opts.Sizes).Error; err != nil {
		return nil, err
	}
	return opts, nil
}

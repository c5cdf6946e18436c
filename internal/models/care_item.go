package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareItem is a catalog entry for something that can be bought for a client
// in a category, e.g. "Compression Socks" in "Mobility".
//
// The catalog is one of the three sources joined by the category spend
// report. Budget items and ledger lines reference care items only through
// the normalized slug, never through the ID.
type CareItem struct {
	DefaultModel
	ClientID   uuid.UUID `json:"clientId" gorm:"uniqueIndex:care_item_client_category_slug"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"uniqueIndex:care_item_client_category_slug"`
	Slug       string    `json:"slug" gorm:"uniqueIndex:care_item_client_category_slug" example:"compression-socks"`
	Label      string    `json:"label" example:"Compression Socks"`
}

func (i *CareItem) BeforeSave(_ *gorm.DB) error {
	i.Label = strings.TrimSpace(i.Label)

	if i.Slug == "" {
		i.Slug = Slugify(i.Label)
	} else {
		i.Slug = strings.ToLower(strings.TrimSpace(i.Slug))
	}

	return nil
}

// CareItems returns the catalog for a client and category.
// Soft-deleted entries are excluded.
func CareItems(db *gorm.DB, clientID, categoryID uuid.UUID) ([]CareItem, error) {
	var items []CareItem

	err := db.
		Where(&CareItem{ClientID: clientID, CategoryID: categoryID}).
		Order("label ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

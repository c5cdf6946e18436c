package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category is a care category, e.g. "Mobility" or "Personal Care".
//
// Categories are a shared catalog across clients; budget allocations and
// ledger lines reference them by ID.
type Category struct {
	DefaultModel
	Name string `json:"name" gorm:"uniqueIndex" example:"Mobility"`
	Note string `json:"note,omitempty"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

// EnsureCategory resolves a category by name, creating it if it does not
// exist yet. Matching is exact on the trimmed name.
func EnsureCategory(db *gorm.DB, name string) (Category, error) {
	var category Category

	err := db.Where(&Category{Name: strings.TrimSpace(name)}).FirstOrCreate(&category, Category{Name: strings.TrimSpace(name)}).Error
	if err != nil {
		return Category{}, err
	}

	return category, nil
}

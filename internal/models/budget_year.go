package models

import (
	"errors"
	"strings"
	"time"

	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetYear is the yearly budget document for one client.
//
// AllocatedTotal, SpentTotal and Surplus are derived values. They are only
// ever written by the recomputation procedures, never directly by callers.
type BudgetYear struct {
	DefaultModel
	ClientID         uuid.UUID        `json:"clientId" gorm:"uniqueIndex:budget_year_client_year"`
	Year             types.FiscalYear `json:"year" gorm:"uniqueIndex:budget_year_client_year" example:"2025"`
	AnnualAllocated  decimal.Decimal  `json:"annualAllocated" gorm:"type:DECIMAL(20,8)" example:"52000"`  // Total money available for the year
	OpeningCarryover decimal.Decimal  `json:"openingCarryover" gorm:"type:DECIMAL(20,8)" example:"1200"`  // Surplus brought forward from a prior year
	AllocatedTotal   decimal.Decimal  `json:"allocatedTotal" gorm:"type:DECIMAL(20,8)" example:"48000"`   // Derived: sum of category allocations
	SpentTotal       decimal.Decimal  `json:"spentTotal" gorm:"type:DECIMAL(20,8)" example:"17340.55"`    // Derived: net ledger spend
	Surplus          decimal.Decimal  `json:"surplus" gorm:"type:DECIMAL(20,8)" example:"4000"`           // Derived: unallocated annual budget, increased by refunds
	RolledFromYear   *types.FiscalYear `json:"rolledFromYear,omitempty" example:"2024"`                   // Set when the year was created by a rollover
	Categories       []CategoryBudget `json:"categories" gorm:"foreignKey:BudgetYearID;constraint:OnDelete:CASCADE"`
}

// CategoryBudget is the allocation for one category within a budget year.
type CategoryBudget struct {
	DefaultModel
	BudgetYearID uuid.UUID       `json:"-" gorm:"uniqueIndex:category_budget_year_category"`
	CategoryID   uuid.UUID       `json:"categoryId" gorm:"uniqueIndex:category_budget_year_category"`
	CategoryName string          `json:"categoryName" example:"Mobility"`
	Allocated    decimal.Decimal `json:"allocated" gorm:"type:DECIMAL(20,8)" example:"4000"`
	Position     int             `json:"-"` // Insertion order within the budget year
	ReleasedAt   *time.Time      `json:"releasedAt,omitempty"`
	Items        []ItemBudget    `json:"items" gorm:"foreignKey:CategoryBudgetID;constraint:OnDelete:CASCADE"`
}

// ItemBudget is the allocation for one care item within a category budget.
//
// Spent is informational only. The authoritative spend figure is computed by
// the category spend report from the ledger.
type ItemBudget struct {
	DefaultModel
	CategoryBudgetID uuid.UUID       `json:"-" gorm:"uniqueIndex:item_budget_category_slug"`
	CareItemSlug     string          `json:"careItemSlug" gorm:"uniqueIndex:item_budget_category_slug" example:"compression-socks"`
	Label            string          `json:"label" example:"Compression Socks"`
	Allocated        decimal.Decimal `json:"allocated" gorm:"type:DECIMAL(20,8)" example:"250"`
	Spent            decimal.Decimal `json:"spent" gorm:"type:DECIMAL(20,8)" example:"80.50"`
	ReleasedAt       *time.Time      `json:"releasedAt,omitempty"`
}

func (i *ItemBudget) BeforeSave(_ *gorm.DB) error {
	i.CareItemSlug = strings.ToLower(strings.TrimSpace(i.CareItemSlug))
	i.Label = strings.TrimSpace(i.Label)

	return nil
}

// categoryByID returns a pointer into the loaded category tree, nil if the
// category has no entry in this budget year.
func (b *BudgetYear) categoryByID(categoryID uuid.UUID) *CategoryBudget {
	for i := range b.Categories {
		if b.Categories[i].CategoryID == categoryID {
			return &b.Categories[i]
		}
	}

	return nil
}

// itemBySlug matches an item by its slug, case-insensitively.
func (c *CategoryBudget) itemBySlug(slug string) *ItemBudget {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i := range c.Items {
		if c.Items[i].CareItemSlug == slug {
			return &c.Items[i]
		}
	}

	return nil
}

// itemsTotal returns the sum of the item allocations of the category.
func (c *CategoryBudget) itemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Allocated)
	}

	return total
}

// BudgetYearFor loads the budget year document for a client with the full
// category and item tree, in insertion order.
func BudgetYearFor(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear) (BudgetYear, error) {
	var budgetYear BudgetYear

	err := db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("category_budgets.position ASC")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_budgets.created_at ASC")
		}).
		First(&budgetYear, &BudgetYear{ClientID: clientID, Year: year}).Error
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// budgetYearForUpdate loads the budget year inside a mutation, creating it
// lazily on the first mutating action for a (client, year) pair.
func budgetYearForUpdate(tx *gorm.DB, clientID uuid.UUID, year types.FiscalYear) (BudgetYear, error) {
	budgetYear, err := BudgetYearFor(tx, clientID, year)
	if err == nil {
		return budgetYear, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return BudgetYear{}, err
	}

	budgetYear = BudgetYear{
		ClientID:         clientID,
		Year:             year,
		AnnualAllocated:  decimal.Zero,
		OpeningCarryover: decimal.Zero,
		AllocatedTotal:   decimal.Zero,
		SpentTotal:       decimal.Zero,
		Surplus:          decimal.Zero,
	}

	if err := tx.Create(&budgetYear).Error; err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// save persists the document including the whole category and item tree.
func (b *BudgetYear) save(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
}

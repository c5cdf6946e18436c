package models

import (
	"errors"
	"strings"
	"time"

	"github.com/careplan/backend/internal/money"
	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The budget actions below all follow the same shape: inside one database
// transaction, load (or lazily create) the budget year, apply exactly one
// change, recompute the allocation totals and save. Years in the past are
// read-only for every action.

// SetAnnual sets the annual allocation of the budget year.
// Negative amounts are clamped to zero.
func SetAnnual(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, amount decimal.Decimal) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = budgetYearForUpdate(tx, clientID, year)
		if err != nil {
			return err
		}

		budgetYear.AnnualAllocated = money.NonNegative(money.RoundCents(amount))
		budgetYear.recomputeAllocations()

		return budgetYear.save(tx)
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// SetCategory sets the allocation of a category, creating the category entry
// if it has none yet. Negative amounts are clamped to zero.
//
// If the existing item allocations sum to more than the new category
// allocation, the items are scaled down proportionally with cent flooring.
// The flooring can leave a small residual gap versus the category total;
// that gap is accepted, not corrected. This rescaling is lossy and
// irreversible, in contrast to SetItem which rejects instead.
func SetCategory(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, categoryID uuid.UUID, categoryName string, amount decimal.Decimal) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	amount = money.NonNegative(money.RoundCents(amount))

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = budgetYearForUpdate(tx, clientID, year)
		if err != nil {
			return err
		}

		category := budgetYear.categoryByID(categoryID)
		if category == nil {
			budgetYear.Categories = append(budgetYear.Categories, CategoryBudget{
				BudgetYearID: budgetYear.ID,
				CategoryID:   categoryID,
				CategoryName: strings.TrimSpace(categoryName),
				Allocated:    amount,
				Position:     len(budgetYear.Categories),
			})
		} else {
			category.Allocated = amount
			if name := strings.TrimSpace(categoryName); name != "" {
				category.CategoryName = name
			}

			itemsTotal := category.itemsTotal()
			if itemsTotal.GreaterThan(amount) && itemsTotal.IsPositive() {
				for i := range category.Items {
					category.Items[i].Allocated = money.FloorCents(
						category.Items[i].Allocated.Mul(amount).Div(itemsTotal))
				}
			}
		}

		budgetYear.recomputeAllocations()

		return budgetYear.save(tx)
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// SetItem sets the allocation of a care item within a category. The slug is
// matched case-insensitively and stored lower-cased.
//
// If the new item allocation sum exceeds the category allocation, the whole
// operation fails with ErrItemsExceedCategory and nothing is applied.
func SetItem(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, categoryID uuid.UUID, slug, label string, amount decimal.Decimal) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	if amount.IsNegative() {
		return BudgetYear{}, ErrInvalidAmount
	}
	amount = money.RoundCents(amount)

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = BudgetYearFor(tx, clientID, year)
		if err != nil {
			return categoryLookupError(err)
		}

		category := budgetYear.categoryByID(categoryID)
		if category == nil {
			return ErrCategoryNotFound
		}

		item := category.itemBySlug(slug)
		if item == nil {
			if strings.TrimSpace(label) == "" {
				label = slug
			}

			category.Items = append(category.Items, ItemBudget{
				CategoryBudgetID: category.ID,
				CareItemSlug:     strings.ToLower(strings.TrimSpace(slug)),
				Label:            strings.TrimSpace(label),
				Allocated:        amount,
				Spent:            decimal.Zero,
			})
		} else {
			item.Allocated = amount
			if l := strings.TrimSpace(label); l != "" {
				item.Label = l
			}
		}

		if category.itemsTotal().GreaterThan(category.Allocated) {
			return ErrItemsExceedCategory
		}

		budgetYear.recomputeAllocations()

		return budgetYear.save(tx)
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// ReleaseCategory zeroes the category allocation and all of its item
// allocations and stamps the release time. Releasing twice is idempotent.
func ReleaseCategory(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, categoryID uuid.UUID) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = BudgetYearFor(tx, clientID, year)
		if err != nil {
			return categoryLookupError(err)
		}

		category := budgetYear.categoryByID(categoryID)
		if category == nil {
			return ErrCategoryNotFound
		}

		now := time.Now().In(time.UTC)
		category.Allocated = decimal.Zero
		category.ReleasedAt = &now
		for i := range category.Items {
			category.Items[i].Allocated = decimal.Zero
			category.Items[i].ReleasedAt = &now
		}

		budgetYear.recomputeAllocations()

		return budgetYear.save(tx)
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// ReleaseItem zeroes one item allocation and stamps the release time.
func ReleaseItem(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, categoryID uuid.UUID, slug string) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = BudgetYearFor(tx, clientID, year)
		if err != nil {
			return categoryLookupError(err)
		}

		category := budgetYear.categoryByID(categoryID)
		if category == nil {
			return ErrCategoryNotFound
		}

		item := category.itemBySlug(slug)
		if item == nil {
			return ErrItemNotFound
		}

		now := time.Now().In(time.UTC)
		item.Allocated = decimal.Zero
		item.ReleasedAt = &now

		budgetYear.recomputeAllocations()

		return budgetYear.save(tx)
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// RolloverOptions control what a rollover carries into the new year.
type RolloverOptions struct {
	CopyCategories       bool // Deep-copy the category and item tree
	BringSurplus         bool // Add the prior year's surplus to carryover and annual allocation
	OverwriteIfExists    bool // Replace an existing target year
	ResetItemAllocations bool // Zero the copied item allocations
}

// Rollover creates the budget year for `year` from the budget of `fromYear`.
//
// The new year starts from the prior year's annual allocation. The prior
// surplus is computed from the allocation totals, not from spend: money that
// was allocated but not spent does not roll over.
func Rollover(db *gorm.DB, clientID uuid.UUID, fromYear, year types.FiscalYear, opts RolloverOptions) (BudgetYear, error) {
	if year.IsPast() {
		return BudgetYear{}, ErrPastYearReadOnly
	}

	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		prev, err := BudgetYearFor(tx, clientID, fromYear)
		if err != nil {
			return err
		}

		existing, err := BudgetYearFor(tx, clientID, year)
		if err == nil {
			if !opts.OverwriteIfExists {
				return ErrBudgetYearExists
			}

			// Hard-delete the target tree, the rollover replaces it
			if err := deleteBudgetYear(tx, existing); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrResourceNotFound) {
			return err
		}

		priorSurplus := money.NonNegative(money.RoundCents(prev.AnnualAllocated.Sub(prev.AllocatedTotal)))

		budgetYear = BudgetYear{
			ClientID:         clientID,
			Year:             year,
			AnnualAllocated:  prev.AnnualAllocated,
			OpeningCarryover: decimal.Zero,
			SpentTotal:       decimal.Zero,
			RolledFromYear:   &fromYear,
		}

		if opts.BringSurplus && priorSurplus.IsPositive() {
			budgetYear.OpeningCarryover = budgetYear.OpeningCarryover.Add(priorSurplus)
			budgetYear.AnnualAllocated = budgetYear.AnnualAllocated.Add(priorSurplus)
		}

		if opts.CopyCategories {
			for position, category := range prev.Categories {
				copied := CategoryBudget{
					CategoryID:   category.CategoryID,
					CategoryName: category.CategoryName,
					Allocated:    category.Allocated,
					Position:     position,
				}

				for _, item := range category.Items {
					allocated := item.Allocated
					if opts.ResetItemAllocations {
						allocated = decimal.Zero
					}

					copied.Items = append(copied.Items, ItemBudget{
						CareItemSlug: item.CareItemSlug,
						Label:        item.Label,
						Allocated:    allocated,
						Spent:        decimal.Zero,
					})
				}

				budgetYear.Categories = append(budgetYear.Categories, copied)
			}
		}

		budgetYear.recomputeAllocations()

		return tx.Create(&budgetYear).Error
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// deleteBudgetYear removes a budget year and its category/item tree for a
// rollover overwrite. Budget years are never deleted outside this path,
// they are historical records.
func deleteBudgetYear(tx *gorm.DB, budgetYear BudgetYear) error {
	for _, category := range budgetYear.Categories {
		if err := tx.Unscoped().Where("category_budget_id = ?", category.ID).Delete(&ItemBudget{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Unscoped().Where("budget_year_id = ?", budgetYear.ID).Delete(&CategoryBudget{}).Error; err != nil {
		return err
	}

	return tx.Unscoped().Delete(&budgetYear).Error
}

// categoryLookupError converts a missing budget year into the category
// error: from the caller's perspective the category has no allocation.
func categoryLookupError(err error) error {
	if errors.Is(err, ErrResourceNotFound) {
		return ErrCategoryNotFound
	}

	return err
}

package models

import (
	"github.com/careplan/backend/internal/money"
	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The two recomputation paths are deliberately separate and are never run
// in the same request: recomputeAllocations runs after allocation edits,
// RecomputeSpendTotals runs after ledger writes.

// recomputeAllocations derives AllocatedTotal and Surplus from the category
// tree. This path concerns allocation, not spend.
func (b *BudgetYear) recomputeAllocations() {
	total := decimal.Zero
	for _, category := range b.Categories {
		total = total.Add(category.Allocated)
	}

	b.AllocatedTotal = total
	b.Surplus = money.NonNegative(b.AnnualAllocated.Sub(total))
}

// RecomputeSpendTotals derives SpentTotal from the ledger for a client and
// year and persists the budget year. Voided transactions are excluded.
//
// A positive refundDelta additionally increases the surplus by that amount.
// This happens on top of the spend reduction the refund already causes; the
// double effect is intentional product behavior.
func RecomputeSpendTotals(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, refundDelta decimal.Decimal) (BudgetYear, error) {
	var budgetYear BudgetYear
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budgetYear, err = budgetYearForUpdate(tx, clientID, year)
		if err != nil {
			return err
		}

		purchases, err := ledgerSum(tx, clientID, year, TransactionTypePurchase)
		if err != nil {
			return err
		}

		refunds, err := ledgerSum(tx, clientID, year, TransactionTypeRefund)
		if err != nil {
			return err
		}

		budgetYear.SpentTotal = money.NonNegative(purchases.Sub(refunds))

		if refundDelta.IsPositive() {
			budgetYear.Surplus = budgetYear.Surplus.Add(refundDelta)
		}

		// The category tree is untouched by this path
		return tx.Omit("Categories").Save(&budgetYear).Error
	})
	if err != nil {
		return BudgetYear{}, err
	}

	return budgetYear, nil
}

// ledgerSum sums the line amounts of all non-voided transactions of one
// type for a client and year.
func ledgerSum(db *gorm.DB, clientID uuid.UUID, year types.FiscalYear, transactionType TransactionType) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	err := db.Model(&TransactionLine{}).
		Select("SUM(transaction_lines.amount)").
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Where("transactions.client_id = ?", clientID).
		Where("transactions.year = ?", year).
		Where("transactions.type = ?", transactionType).
		Where("transactions.voided_at IS NULL").
		Where("transactions.deleted_at IS NULL").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}

	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}

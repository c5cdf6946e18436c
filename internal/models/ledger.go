package models

import (
	"time"

	"github.com/careplan/backend/internal/money"
	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineInput is the caller-supplied data for one transaction line.
type LineInput struct {
	CategoryID            uuid.UUID
	CareItemSlug          string
	Label                 string
	Amount                decimal.Decimal
	RefundOfTransactionID uuid.UUID // Refunds only
	RefundOfLineID        uuid.UUID // Refunds only
}

// PurchaseInput is the caller-supplied data for recording a purchase or a
// refund.
type PurchaseInput struct {
	ClientID     uuid.UUID
	Date         time.Time
	MadeByUserID uuid.UUID
	ReceiptURL   string
	Note         string
	Lines        []LineInput
}

// RecordPurchase appends a purchase to the ledger and recomputes the spend
// totals of the budget year the purchase falls into. A purchase never grows
// the surplus, so the refund delta passed to the recomputation is zero.
func RecordPurchase(db *gorm.DB, input PurchaseInput) (Transaction, error) {
	if len(input.Lines) == 0 {
		return Transaction{}, ErrNoLines
	}

	for _, line := range input.Lines {
		if line.Amount.IsNegative() {
			return Transaction{}, ErrInvalidAmount
		}
	}

	if input.Date.IsZero() {
		input.Date = time.Now().In(time.UTC)
	}

	year := types.FiscalYearOf(input.Date)
	if year.IsPast() {
		return Transaction{}, ErrPastYearReadOnly
	}

	transaction := Transaction{
		ClientID:     input.ClientID,
		Date:         input.Date,
		Type:         TransactionTypePurchase,
		MadeByUserID: input.MadeByUserID,
		ReceiptURL:   input.ReceiptURL,
		Note:         input.Note,
	}

	for _, line := range input.Lines {
		transaction.Lines = append(transaction.Lines, TransactionLine{
			CategoryID:   line.CategoryID,
			CareItemSlug: line.CareItemSlug,
			Label:        line.Label,
			Amount:       line.Amount,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		_, err := RecomputeSpendTotals(tx, input.ClientID, year, decimal.Zero)
		return err
	})
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

// RecordRefund appends a refund to the ledger.
//
// Every line is resolved against its original purchase line before anything
// is persisted; the first line that fails validation aborts the whole
// refund. Resolution is sequential: when two lines of the same request
// target the same original line, the second one sees the first one's amount
// as already refunded.
//
// After the append, the spend totals are recomputed with the sum of the new
// refund's line amounts as refund delta, which additionally increases the
// surplus by that amount.
func RecordRefund(db *gorm.DB, input PurchaseInput) (Transaction, error) {
	if len(input.Lines) == 0 {
		return Transaction{}, ErrNoLines
	}

	if input.Date.IsZero() {
		input.Date = time.Now().In(time.UTC)
	}

	year := types.FiscalYearOf(input.Date)
	if year.IsPast() {
		return Transaction{}, ErrPastYearReadOnly
	}

	transaction := Transaction{
		ClientID:     input.ClientID,
		Date:         input.Date,
		Type:         TransactionTypeRefund,
		MadeByUserID: input.MadeByUserID,
		ReceiptURL:   input.ReceiptURL,
		Note:         input.Note,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Validation and append happen in the same database transaction so
		// a concurrent refund cannot be admitted past the remaining balance.
		pending := map[refundKey]decimal.Decimal{}
		refundTotal := decimal.Zero

		for _, line := range input.Lines {
			resolved, err := resolveRefundLine(tx, input.ClientID, year, line, pending)
			if err != nil {
				return err
			}

			transaction.Lines = append(transaction.Lines, resolved)
			refundTotal = refundTotal.Add(resolved.Amount)
		}

		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		_, err := RecomputeSpendTotals(tx, input.ClientID, year, money.RoundCents(refundTotal))
		return err
	})
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

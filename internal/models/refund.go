package models

import (
	"errors"

	"github.com/careplan/backend/internal/money"
	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// refundKey identifies one original purchase line within a refund request.
type refundKey struct {
	TransactionID uuid.UUID
	LineID        uuid.UUID
}

// resolveRefundLine authorizes and bounds one refund line against the
// original purchase line it points at.
//
// The pending map carries the amounts already claimed by earlier lines of
// the same request, so resolution order matters and must stay sequential.
// The resolved line inherits the category and care item slug of the
// original line; the label may be overridden by the caller.
func resolveRefundLine(tx *gorm.DB, clientID uuid.UUID, year types.FiscalYear, input LineInput, pending map[refundKey]decimal.Decimal) (TransactionLine, error) {
	if input.RefundOfTransactionID == uuid.Nil || input.RefundOfLineID == uuid.Nil {
		return TransactionLine{}, ErrOriginalNotFound
	}

	var original Transaction
	err := tx.Preload("Lines").
		Where("client_id = ?", clientID).
		Where("type = ?", TransactionTypePurchase).
		Where("voided_at IS NULL").
		First(&original, "id = ?", input.RefundOfTransactionID).Error
	if err != nil {
		return TransactionLine{}, originalLookupError(err)
	}

	if original.Year != year {
		return TransactionLine{}, ErrYearMismatch
	}

	var originalLine *TransactionLine
	for i := range original.Lines {
		if original.Lines[i].ID == input.RefundOfLineID {
			originalLine = &original.Lines[i]
			break
		}
	}
	if originalLine == nil {
		return TransactionLine{}, ErrOriginalLineNotFound
	}

	key := refundKey{TransactionID: original.ID, LineID: originalLine.ID}

	refundedSoFar, err := refundedAgainstLine(tx, clientID, year, key)
	if err != nil {
		return TransactionLine{}, err
	}
	refundedSoFar = refundedSoFar.Add(pending[key])

	remaining := money.NonNegative(originalLine.Amount.Sub(refundedSoFar))

	if input.Amount.IsNegative() {
		return TransactionLine{}, ErrInvalidAmount
	}

	if !money.WithinLimit(input.Amount, remaining) {
		return TransactionLine{}, ErrRefundExceedsOriginal
	}

	pending[key] = pending[key].Add(input.Amount)

	label := input.Label
	if label == "" {
		label = originalLine.Label
	}

	transactionID := original.ID
	lineID := originalLine.ID

	return TransactionLine{
		CategoryID:            originalLine.CategoryID,
		CareItemSlug:          originalLine.CareItemSlug,
		Label:                 label,
		Amount:                input.Amount,
		RefundOfTransactionID: &transactionID,
		RefundOfLineID:        &lineID,
	}, nil
}

// refundedAgainstLine sums the amounts of all lines of non-voided refund
// transactions in the year that reference the original line.
func refundedAgainstLine(tx *gorm.DB, clientID uuid.UUID, year types.FiscalYear, key refundKey) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	err := tx.Model(&TransactionLine{}).
		Select("SUM(transaction_lines.amount)").
		Joins("JOIN transactions ON transactions.id = transaction_lines.transaction_id").
		Where("transactions.client_id = ?", clientID).
		Where("transactions.year = ?", year).
		Where("transactions.type = ?", TransactionTypeRefund).
		Where("transactions.voided_at IS NULL").
		Where("transactions.deleted_at IS NULL").
		Where("transaction_lines.refund_of_transaction_id = ?", key.TransactionID).
		Where("transaction_lines.refund_of_line_id = ?", key.LineID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}

	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}

// originalLookupError maps a missing row onto the refund error taxonomy.
func originalLookupError(err error) error {
	if errors.Is(err, ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOriginalNotFound
	}

	return err
}

package models

import (
	"strings"
	"time"

	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType distinguishes money leaving the budget from money
// returning to it.
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeRefund   TransactionType = "REFUND"
)

// Transaction is one append-only ledger entry with one or more lines.
//
// Transactions are immutable once recorded. The only later change is the
// void marker; voided transactions stay in the ledger but are excluded from
// every aggregation.
type Transaction struct {
	DefaultModel
	ClientID     uuid.UUID         `json:"clientId" gorm:"index"`
	Year         types.FiscalYear  `json:"year" gorm:"index" example:"2025"` // Derived from the UTC calendar year of Date
	Date         time.Time         `json:"date" example:"2025-03-14T00:00:00Z"`
	Type         TransactionType   `json:"type" example:"PURCHASE"`
	MadeByUserID uuid.UUID         `json:"madeByUserId"`
	ReceiptURL   string            `json:"receiptUrl,omitempty"`
	Note         string            `json:"note,omitempty"`
	VoidedAt     *time.Time        `json:"voidedAt,omitempty"`
	Lines        []TransactionLine `json:"lines" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TransactionLine is one itemized entry within a transaction.
//
// For refunds, RefundOfTransactionID and RefundOfLineID point at exactly one
// original purchase line. The sum of all non-voided refund line amounts
// against one original line never exceeds that line's amount.
type TransactionLine struct {
	DefaultModel
	TransactionID         uuid.UUID       `json:"-" gorm:"index"`
	CategoryID            uuid.UUID       `json:"categoryId"`
	CareItemSlug          string          `json:"careItemSlug" example:"toothbrush"`
	Label                 string          `json:"label" example:"Toothbrush"`
	Amount                decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`
	RefundOfTransactionID *uuid.UUID      `json:"refundOfTransId,omitempty" gorm:"index"`
	RefundOfLineID        *uuid.UUID      `json:"refundOfLineId,omitempty" gorm:"index"`
}

// BeforeSave sets the timezone for the Date to UTC and derives the fiscal
// year from it.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	t.Year = types.FiscalYearOf(t.Date)

	return nil
}

// AfterFind updates the date to use UTC as timezone, not +0000.
func (t *Transaction) AfterFind(_ *gorm.DB) error {
	t.Date = t.Date.In(time.UTC)
	return nil
}

func (l *TransactionLine) BeforeSave(_ *gorm.DB) error {
	l.CareItemSlug = strings.ToLower(strings.TrimSpace(l.CareItemSlug))
	l.Label = strings.TrimSpace(l.Label)

	if l.CareItemSlug == "" {
		l.CareItemSlug = Slugify(l.Label)
	}

	return nil
}

// Voided reports whether the transaction has been voided.
func (t Transaction) Voided() bool {
	return t.VoidedAt != nil
}

// Void marks the transaction as voided and recomputes the spend totals of
// its budget year so that every aggregate drops it symmetrically.
func (t *Transaction) Void(db *gorm.DB) error {
	if t.Voided() {
		return ErrTransactionVoided
	}

	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().In(time.UTC)
		t.VoidedAt = &now

		if err := tx.Omit("Lines").Save(t).Error; err != nil {
			return err
		}

		_, err := RecomputeSpendTotals(tx, t.ClientID, t.Year, decimal.Zero)
		return err
	})
}

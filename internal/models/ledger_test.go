package models_test

import (
	"time"

	"github.com/careplan/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestRecordPurchase() {
	clientID := uuid.New()
	categoryID := uuid.New()

	transaction, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID:     clientID,
		Date:         dateInYear(currentYear()),
		MadeByUserID: uuid.New(),
		Note:         "pharmacy run",
		Lines: []models.LineInput{
			{CategoryID: categoryID, CareItemSlug: "compression-socks", Label: "Compression Socks", Amount: decimal.NewFromFloat(80.50)},
			{CategoryID: categoryID, Label: "Bandages", Amount: decimal.NewFromInt(20)},
		},
	})
	suite.Require().Nil(err)

	suite.Assert().Equal(currentYear(), transaction.Year)
	suite.Assert().Equal(models.TransactionTypePurchase, transaction.Type)
	suite.Require().Len(transaction.Lines, 2)

	// The slug is derived from the label when none is given
	suite.Assert().Equal("bandages", transaction.Lines[1].CareItemSlug)

	// Recording a purchase lazily creates the budget year
	budgetYear, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("100.5", budgetYear.SpentTotal)
	suite.assertDecimal("0", budgetYear.AnnualAllocated)
}

func (suite *TestSuiteStandard) TestRecordPurchaseErrors() {
	clientID := uuid.New()

	_, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
	})
	suite.Assert().ErrorIs(err, models.ErrNoLines)

	_, err = models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines:    []models.LineInput{{Label: "Bandages", Amount: decimal.NewFromInt(-5)}},
	})
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)

	_, err = models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear().Prev()),
		Lines:    []models.LineInput{{Label: "Bandages", Amount: decimal.NewFromInt(5)}},
	})
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)
}

func (suite *TestSuiteStandard) TestTransactionDateUTC() {
	// Local midnight on new year's day is still the previous UTC year
	date := time.Date(int(currentYear()), 1, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600))

	_, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: uuid.New(),
		Date:     date,
		Lines:    []models.LineInput{{Label: "Bandages", Amount: decimal.NewFromInt(5)}},
	})
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)
}

func (suite *TestSuiteStandard) TestVoidTransaction() {
	clientID := uuid.New()

	transaction, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines:    []models.LineInput{{Label: "Walker", Amount: decimal.NewFromInt(120)}},
	})
	suite.Require().Nil(err)

	err = transaction.Void(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(transaction.Voided())

	// The voided purchase no longer counts towards the spend
	budgetYear, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("0", budgetYear.SpentTotal)

	err = transaction.Void(models.DB)
	suite.Assert().ErrorIs(err, models.ErrTransactionVoided)
}

func (suite *TestSuiteStandard) TestRefundReducesSpendAndGrowsSurplus() {
	clientID := uuid.New()

	_, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(1000))
	suite.Require().Nil(err)

	purchase, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines:    []models.LineInput{{Label: "Walker", Amount: decimal.NewFromInt(100)}},
	})
	suite.Require().Nil(err)

	budgetYear, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("100", budgetYear.SpentTotal)
	suite.assertDecimal("1000", budgetYear.Surplus)

	_, err = models.RecordRefund(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines: []models.LineInput{{
			Amount:                decimal.NewFromInt(30),
			RefundOfTransactionID: purchase.ID,
			RefundOfLineID:        purchase.Lines[0].ID,
		}},
	})
	suite.Require().Nil(err)

	// The refund reduces the spend and additionally grows the surplus
	budgetYear, err = models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("70", budgetYear.SpentTotal)
	suite.assertDecimal("1030", budgetYear.Surplus)
}

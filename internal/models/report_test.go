package models_test

import (
	"github.com/careplan/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reportFixture is a client with all three report sources populated: a budget
// item for socks, a catalog entry for a toothbrush that was never bought, and
// ledger spend for socks plus an off-budget bandages purchase.
func (suite *TestSuiteStandard) reportFixture() (clientID, categoryID uuid.UUID) {
	clientID = uuid.New()
	category := suite.createTestCategory("Personal Care")
	categoryID = category.ID

	_, err := models.SetCategory(models.DB, clientID, currentYear(), categoryID, category.Name, decimal.NewFromInt(4000))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), categoryID, "compression-socks", "Compression Socks", decimal.NewFromInt(250))
	suite.Require().Nil(err)

	suite.createTestCareItem(models.CareItem{
		ClientID:   clientID,
		CategoryID: categoryID,
		Label:      "Toothbrush",
	})

	purchase, err := models.RecordPurchase(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines: []models.LineInput{
			{CategoryID: categoryID, CareItemSlug: "compression-socks", Amount: decimal.NewFromFloat(80.50)},
			{CategoryID: categoryID, Label: "Bandages", Amount: decimal.NewFromInt(20)},
		},
	})
	suite.Require().Nil(err)

	_, err = models.RecordRefund(models.DB, models.PurchaseInput{
		ClientID: clientID,
		Date:     dateInYear(currentYear()),
		Lines: []models.LineInput{
			{Amount: decimal.NewFromInt(10), RefundOfTransactionID: purchase.ID, RefundOfLineID: purchase.Lines[0].ID},
		},
	})
	suite.Require().Nil(err)

	return clientID, categoryID
}

func (suite *TestSuiteStandard) TestCategorySpend() {
	clientID, categoryID := suite.reportFixture()

	report, err := models.CategorySpend(models.DB, clientID, currentYear(), categoryID, "")
	suite.Require().Nil(err)

	suite.Assert().Equal("Personal Care", report.CategoryName)
	suite.assertDecimal("4000", report.Allocated)
	suite.assertDecimal("90.5", report.Spent)

	// The union of budget, ledger and catalog, sorted by label
	suite.Require().Len(report.Items, 3)
	suite.Assert().Equal("Bandages", report.Items[0].Label)
	suite.Assert().Equal("Compression Socks", report.Items[1].Label)
	suite.Assert().Equal("Toothbrush", report.Items[2].Label)

	// Bandages only exist in the ledger
	suite.assertDecimal("0", report.Items[0].Allocated)
	suite.assertDecimal("20", report.Items[0].Spent)

	// Socks exist in budget and ledger, net of the refund
	suite.assertDecimal("250", report.Items[1].Allocated)
	suite.assertDecimal("70.5", report.Items[1].Spent)

	// The toothbrush was cataloged but never budgeted or bought
	suite.Assert().Equal("toothbrush", report.Items[2].Slug)
	suite.assertDecimal("0", report.Items[2].Allocated)
	suite.assertDecimal("0", report.Items[2].Spent)
}

func (suite *TestSuiteStandard) TestCategorySpendLabelPriority() {
	clientID, categoryID := suite.reportFixture()

	report, err := models.CategorySpend(models.DB, clientID, currentYear(), categoryID, "")
	suite.Require().Nil(err)

	// The ledger lines for socks carry no label, the budget label wins
	suite.Assert().Equal("Compression Socks", report.Items[1].Label)
}

func (suite *TestSuiteStandard) TestCategorySpendSlugFilter() {
	clientID, categoryID := suite.reportFixture()

	report, err := models.CategorySpend(models.DB, clientID, currentYear(), categoryID, "comp*")
	suite.Require().Nil(err)

	suite.Require().Len(report.Items, 1)
	suite.Assert().Equal("compression-socks", report.Items[0].Slug)

	// The report total only sums the filtered items
	suite.assertDecimal("70.5", report.Spent)
}

func (suite *TestSuiteStandard) TestCategorySpendWithoutBudget() {
	clientID := uuid.New()
	categoryID := uuid.New()

	report, err := models.CategorySpend(models.DB, clientID, currentYear(), categoryID, "")
	suite.Require().Nil(err)

	// No budget year, no catalog, no ledger: an empty report with defaults
	suite.Assert().Equal("Category", report.CategoryName)
	suite.assertDecimal("0", report.Allocated)
	suite.assertDecimal("0", report.Spent)
	suite.Assert().Empty(report.Items)
}

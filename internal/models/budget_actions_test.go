package models_test

import (
	"github.com/careplan/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestSetAnnual() {
	clientID := uuid.New()

	budgetYear, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(52000))
	suite.Require().Nil(err)

	suite.assertDecimal("52000", budgetYear.AnnualAllocated)
	suite.assertDecimal("0", budgetYear.AllocatedTotal)
	suite.assertDecimal("52000", budgetYear.Surplus)

	// The first action created the budget year document
	reloaded, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("52000", reloaded.AnnualAllocated)
}

func (suite *TestSuiteStandard) TestSetAnnualClampsNegative() {
	budgetYear, err := models.SetAnnual(models.DB, uuid.New(), currentYear(), decimal.NewFromInt(-500))
	suite.Require().Nil(err)

	suite.assertDecimal("0", budgetYear.AnnualAllocated)
}

func (suite *TestSuiteStandard) TestSetCategory() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(52000))
	suite.Require().Nil(err)

	budgetYear, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(4000))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories, 1)
	suite.Assert().Equal("Mobility", budgetYear.Categories[0].CategoryName)
	suite.assertDecimal("4000", budgetYear.Categories[0].Allocated)
	suite.assertDecimal("4000", budgetYear.AllocatedTotal)
	suite.assertDecimal("48000", budgetYear.Surplus)

	// Setting the same category again updates in place
	budgetYear, err = models.SetCategory(models.DB, clientID, currentYear(), category.ID, "", decimal.NewFromInt(5000))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories, 1)
	suite.Assert().Equal("Mobility", budgetYear.Categories[0].CategoryName, "empty name must not clear the existing one")
	suite.assertDecimal("5000", budgetYear.AllocatedTotal)
	suite.assertDecimal("47000", budgetYear.Surplus)
}

func (suite *TestSuiteStandard) TestSetCategoryKeepsInsertionOrder() {
	clientID := uuid.New()
	first := suite.createTestCategory("Mobility")
	second := suite.createTestCategory("Personal Care")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), first.ID, first.Name, decimal.NewFromInt(100))
	suite.Require().Nil(err)
	_, err = models.SetCategory(models.DB, clientID, currentYear(), second.ID, second.Name, decimal.NewFromInt(200))
	suite.Require().Nil(err)

	// Updating the first category must not move it to the end
	budgetYear, err := models.SetCategory(models.DB, clientID, currentYear(), first.ID, "", decimal.NewFromInt(150))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories, 2)
	suite.Assert().Equal("Mobility", budgetYear.Categories[0].CategoryName)
	suite.Assert().Equal("Personal Care", budgetYear.Categories[1].CategoryName)
}

func (suite *TestSuiteStandard) TestSetCategoryRescalesItems() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(1000))
	suite.Require().Nil(err)

	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(600))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "socks", "Compression Socks", decimal.NewFromInt(350))
	suite.Require().Nil(err)

	// Shrinking the category below the item total rescales the items
	// proportionally with cent flooring
	budgetYear, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, "", decimal.NewFromInt(474))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories, 1)
	items := budgetYear.Categories[0].Items
	suite.Require().Len(items, 2)

	// 600 * 474/950 = 299.368..., 350 * 474/950 = 174.631...
	suite.assertDecimal("299.36", items[0].Allocated)
	suite.assertDecimal("174.63", items[1].Allocated)

	// The flooring residue is accepted, not redistributed
	suite.assertDecimal("474", budgetYear.Categories[0].Allocated)
}

func (suite *TestSuiteStandard) TestSetCategoryGrowthKeepsItems() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(500))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(300))
	suite.Require().Nil(err)

	budgetYear, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, "", decimal.NewFromInt(2000))
	suite.Require().Nil(err)

	suite.assertDecimal("300", budgetYear.Categories[0].Items[0].Allocated, "items must not be rescaled when the category grows")
}

func (suite *TestSuiteStandard) TestSetCategoryOverAllocation() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(100))
	suite.Require().Nil(err)

	// Allocating more than the annual budget is allowed, the surplus
	// just clamps to zero
	budgetYear, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(300))
	suite.Require().Nil(err)

	suite.assertDecimal("300", budgetYear.AllocatedTotal)
	suite.assertDecimal("0", budgetYear.Surplus)
}

func (suite *TestSuiteStandard) TestSetItem() {
	clientID := uuid.New()
	category := suite.createTestCategory("Personal Care")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(4000))
	suite.Require().Nil(err)

	budgetYear, err := models.SetItem(models.DB, clientID, currentYear(), category.ID, "Compression-Socks", "Compression Socks", decimal.NewFromInt(250))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories, 1)
	suite.Require().Len(budgetYear.Categories[0].Items, 1)

	item := budgetYear.Categories[0].Items[0]
	suite.Assert().Equal("compression-socks", item.CareItemSlug, "slugs are stored lower-cased")
	suite.assertDecimal("250", item.Allocated)

	// Slug matching is case-insensitive
	budgetYear, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "COMPRESSION-SOCKS", "", decimal.NewFromInt(300))
	suite.Require().Nil(err)

	suite.Require().Len(budgetYear.Categories[0].Items, 1)
	suite.assertDecimal("300", budgetYear.Categories[0].Items[0].Allocated)
	suite.Assert().Equal("Compression Socks", budgetYear.Categories[0].Items[0].Label, "empty label must not clear the existing one")
}

func (suite *TestSuiteStandard) TestSetItemExceedsCategory() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(100))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(60))
	suite.Require().Nil(err)

	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "socks", "Socks", decimal.NewFromInt(50))
	suite.Assert().ErrorIs(err, models.ErrItemsExceedCategory)

	// Nothing of the failed action is applied
	budgetYear, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.Require().Len(budgetYear.Categories[0].Items, 1)
	suite.assertDecimal("60", budgetYear.Categories[0].Items[0].Allocated)
}

func (suite *TestSuiteStandard) TestSetItemErrors() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(-10))
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)

	// No budget year for the client yet
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(10))
	suite.Assert().ErrorIs(err, models.ErrCategoryNotFound)

	// Budget year exists, but the category has no allocation
	_, err = models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(100))
	suite.Require().Nil(err)

	_, err = models.SetItem(models.DB, clientID, currentYear(), uuid.New(), "walker", "Walker", decimal.NewFromInt(10))
	suite.Assert().ErrorIs(err, models.ErrCategoryNotFound)
}

func (suite *TestSuiteStandard) TestReleaseCategory() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(1000))
	suite.Require().Nil(err)
	_, err = models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(400))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(250))
	suite.Require().Nil(err)

	budgetYear, err := models.ReleaseCategory(models.DB, clientID, currentYear(), category.ID)
	suite.Require().Nil(err)

	released := budgetYear.Categories[0]
	suite.assertDecimal("0", released.Allocated)
	suite.Assert().NotNil(released.ReleasedAt)
	suite.assertDecimal("0", released.Items[0].Allocated)
	suite.Assert().NotNil(released.Items[0].ReleasedAt)

	// The freed allocation returns to the surplus
	suite.assertDecimal("0", budgetYear.AllocatedTotal)
	suite.assertDecimal("1000", budgetYear.Surplus)

	// Releasing twice is idempotent
	_, err = models.ReleaseCategory(models.DB, clientID, currentYear(), category.ID)
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestReleaseItem() {
	clientID := uuid.New()
	category := suite.createTestCategory("Mobility")

	_, err := models.SetCategory(models.DB, clientID, currentYear(), category.ID, category.Name, decimal.NewFromInt(400))
	suite.Require().Nil(err)
	_, err = models.SetItem(models.DB, clientID, currentYear(), category.ID, "walker", "Walker", decimal.NewFromInt(250))
	suite.Require().Nil(err)

	budgetYear, err := models.ReleaseItem(models.DB, clientID, currentYear(), category.ID, "walker")
	suite.Require().Nil(err)

	item := budgetYear.Categories[0].Items[0]
	suite.assertDecimal("0", item.Allocated)
	suite.Assert().NotNil(item.ReleasedAt)

	// The category allocation is untouched
	suite.assertDecimal("400", budgetYear.Categories[0].Allocated)

	_, err = models.ReleaseItem(models.DB, clientID, currentYear(), category.ID, "unknown")
	suite.Assert().ErrorIs(err, models.ErrItemNotFound)
}

func (suite *TestSuiteStandard) TestPastYearReadOnly() {
	clientID := uuid.New()
	categoryID := uuid.New()
	pastYear := currentYear().Prev()

	_, err := models.SetAnnual(models.DB, clientID, pastYear, decimal.NewFromInt(100))
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)

	_, err = models.SetCategory(models.DB, clientID, pastYear, categoryID, "Mobility", decimal.NewFromInt(100))
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)

	_, err = models.SetItem(models.DB, clientID, pastYear, categoryID, "walker", "Walker", decimal.NewFromInt(100))
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)

	_, err = models.ReleaseCategory(models.DB, clientID, pastYear, categoryID)
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)

	_, err = models.ReleaseItem(models.DB, clientID, pastYear, categoryID, "walker")
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)

	_, err = models.Rollover(models.DB, clientID, pastYear.Prev(), pastYear, models.RolloverOptions{})
	suite.Assert().ErrorIs(err, models.ErrPastYearReadOnly)
}

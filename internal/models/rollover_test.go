package models_test

import (
	"github.com/careplan/backend/internal/models"
	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// createRolloverSource creates a budget year for a past fiscal year directly,
// since the budget actions refuse to write into the past.
func (suite *TestSuiteStandard) createRolloverSource(clientID uuid.UUID, year types.FiscalYear) models.BudgetYear {
	return suite.createTestBudgetYear(models.BudgetYear{
		ClientID:        clientID,
		Year:            year,
		AnnualAllocated: decimal.NewFromInt(1000),
		AllocatedTotal:  decimal.NewFromInt(400),
		Surplus:         decimal.NewFromInt(600),
		Categories: []models.CategoryBudget{
			{
				CategoryID:   uuid.New(),
				CategoryName: "Mobility",
				Allocated:    decimal.NewFromInt(400),
				Items: []models.ItemBudget{
					{CareItemSlug: "walker", Label: "Walker", Allocated: decimal.NewFromInt(250)},
				},
			},
		},
	})
}

func (suite *TestSuiteStandard) TestRollover() {
	clientID := uuid.New()
	fromYear := currentYear().Prev()
	suite.createRolloverSource(clientID, fromYear)

	budgetYear, err := models.Rollover(models.DB, clientID, fromYear, currentYear(), models.RolloverOptions{
		CopyCategories: true,
		BringSurplus:   true,
	})
	suite.Require().Nil(err)

	// 600 of the prior year's 1000 were never allocated and carry over
	suite.assertDecimal("1600", budgetYear.AnnualAllocated)
	suite.assertDecimal("600", budgetYear.OpeningCarryover)
	suite.assertDecimal("400", budgetYear.AllocatedTotal)
	suite.assertDecimal("1200", budgetYear.Surplus)
	suite.assertDecimal("0", budgetYear.SpentTotal)

	suite.Require().NotNil(budgetYear.RolledFromYear)
	suite.Assert().Equal(fromYear, *budgetYear.RolledFromYear)

	suite.Require().Len(budgetYear.Categories, 1)
	suite.Assert().Equal("Mobility", budgetYear.Categories[0].CategoryName)
	suite.Require().Len(budgetYear.Categories[0].Items, 1)
	suite.assertDecimal("250", budgetYear.Categories[0].Items[0].Allocated)
}

func (suite *TestSuiteStandard) TestRolloverWithoutOptions() {
	clientID := uuid.New()
	fromYear := currentYear().Prev()
	suite.createRolloverSource(clientID, fromYear)

	budgetYear, err := models.Rollover(models.DB, clientID, fromYear, currentYear(), models.RolloverOptions{})
	suite.Require().Nil(err)

	// Only the annual allocation carries, nothing else
	suite.assertDecimal("1000", budgetYear.AnnualAllocated)
	suite.assertDecimal("0", budgetYear.OpeningCarryover)
	suite.assertDecimal("0", budgetYear.AllocatedTotal)
	suite.assertDecimal("1000", budgetYear.Surplus)
	suite.Assert().Empty(budgetYear.Categories)
}

func (suite *TestSuiteStandard) TestRolloverResetItemAllocations() {
	clientID := uuid.New()
	fromYear := currentYear().Prev()
	suite.createRolloverSource(clientID, fromYear)

	budgetYear, err := models.Rollover(models.DB, clientID, fromYear, currentYear(), models.RolloverOptions{
		CopyCategories:       true,
		ResetItemAllocations: true,
	})
	suite.Require().Nil(err)

	// Category allocations stay, only the item allocations are zeroed
	suite.assertDecimal("400", budgetYear.Categories[0].Allocated)
	suite.assertDecimal("0", budgetYear.Categories[0].Items[0].Allocated)
}

func (suite *TestSuiteStandard) TestRolloverExistingTarget() {
	clientID := uuid.New()
	fromYear := currentYear().Prev()
	suite.createRolloverSource(clientID, fromYear)

	_, err := models.SetAnnual(models.DB, clientID, currentYear(), decimal.NewFromInt(50))
	suite.Require().Nil(err)

	_, err = models.Rollover(models.DB, clientID, fromYear, currentYear(), models.RolloverOptions{})
	suite.Assert().ErrorIs(err, models.ErrBudgetYearExists)

	// With the overwrite option the existing tree is replaced
	budgetYear, err := models.Rollover(models.DB, clientID, fromYear, currentYear(), models.RolloverOptions{
		OverwriteIfExists: true,
	})
	suite.Require().Nil(err)
	suite.assertDecimal("1000", budgetYear.AnnualAllocated)

	reloaded, err := models.BudgetYearFor(models.DB, clientID, currentYear())
	suite.Require().Nil(err)
	suite.assertDecimal("1000", reloaded.AnnualAllocated)
	suite.Require().NotNil(reloaded.RolledFromYear)
}

func (suite *TestSuiteStandard) TestRolloverMissingSource() {
	_, err := models.Rollover(models.DB, uuid.New(), currentYear().Prev(), currentYear(), models.RolloverOptions{})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

package models_test

import (
	"github.com/careplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestEnsureCategory() {
	category, err := models.EnsureCategory(models.DB, "Mobility")
	suite.Require().Nil(err)
	suite.Assert().Equal("Mobility", category.Name)

	// Resolving the same name again returns the existing category
	again, err := models.EnsureCategory(models.DB, " Mobility ")
	suite.Require().Nil(err)
	suite.Assert().Equal(category.ID, again.ID)
}

func (suite *TestSuiteStandard) TestCategoryNameUnique() {
	suite.createTestCategory("Mobility")

	err := models.DB.Create(&models.Category{Name: "Mobility"}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestCategoryTrimsFields() {
	category := suite.createTestCategory("  Personal Care  ")
	suite.Assert().Equal("Personal Care", category.Name)
}

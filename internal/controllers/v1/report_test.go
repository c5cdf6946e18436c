package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/careplan/backend/internal/controllers/v1"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/types"
	ez_uuid "github.com/careplan/backend/internal/uuid"
	"github.com/careplan/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategorySpendOptions() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/reports/category-spend", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCategorySpendReport() {
	clientID := ez_uuid.New()

	budget := suite.manageBudget(v1.BudgetActionRequest{
		ClientID:     clientID,
		Year:         types.CurrentFiscalYear(),
		Action:       "setCategory",
		CategoryName: "Personal Care",
		Amount:       decimal.NewFromInt(4000),
	})
	categoryID := budget.Data.Categories[0].CategoryID

	suite.manageBudget(v1.BudgetActionRequest{
		ClientID:     clientID,
		Year:         types.CurrentFiscalYear(),
		Action:       "setItem",
		CategoryID:   ez_uuid.UUID{UUID: categoryID},
		CareItemSlug: "compression-socks",
		Label:        "Compression Socks",
		Amount:       decimal.NewFromInt(250),
	})

	editable := purchaseEditable(clientID)
	editable.Lines[0].CategoryID = ez_uuid.UUID{UUID: categoryID}
	suite.createTestTransaction(editable)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/reports/category-spend?client=%s&year=%s&category=%s", clientID, types.CurrentFiscalYear(), categoryID), "", test.RoleHeader(identity.RoleCarer))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CategorySpendResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Personal Care", response.Data.CategoryName)
	suite.assertDecimal("4000", response.Data.Allocated)
	suite.assertDecimal("80.5", response.Data.Spent)

	suite.Require().Len(response.Data.Items, 1)
	suite.Assert().Equal("compression-socks", response.Data.Items[0].Slug)
	suite.assertDecimal("250", response.Data.Items[0].Allocated)
	suite.assertDecimal("80.5", response.Data.Items[0].Spent)
}

func (suite *TestSuiteStandard) TestCategorySpendErrors() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/category-spend", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	tests := []struct {
		name  string
		query string
	}{
		{"missing client", fmt.Sprintf("year=%s&category=%s", types.CurrentFiscalYear(), ez_uuid.New())},
		{"missing year", fmt.Sprintf("client=%s&category=%s", ez_uuid.New(), ez_uuid.New())},
		{"missing category", fmt.Sprintf("client=%s&year=%s", ez_uuid.New(), types.CurrentFiscalYear())},
		{"invalid category", fmt.Sprintf("client=%s&year=%s&category=not-a-uuid", ez_uuid.New(), types.CurrentFiscalYear())},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/reports/category-spend?%s", tt.query), "", test.RoleHeader(identity.RoleCarer))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

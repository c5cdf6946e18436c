package v1

import (
	"fmt"

	"github.com/careplan/backend/internal/models"
	"github.com/careplan/backend/internal/types"
	ez_uuid "github.com/careplan/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Budget actions. Every mutation of a budget year is expressed as exactly
// one of these.
const (
	actionSetAnnual        = "setAnnual"
	actionSetCategory      = "setCategory"
	actionSetItem          = "setItem"
	actionReleaseCategory  = "releaseCategory"
	actionReleaseItem      = "releaseItem"
	actionRolloverFromPrev = "rolloverFromPrev"
)

// BudgetActionRequest is the body of the manage endpoint. Which fields are
// required depends on the action.
type BudgetActionRequest struct {
	ClientID ez_uuid.UUID     `json:"clientId" example:"d1c8a2c6-7a66-4eb6-b67b-1cbd31b273fc"` // Client the budget belongs to
	Year     types.FiscalYear `json:"year" example:"2025"`                                     // Fiscal year to change
	Action   string           `json:"action" example:"setCategory"`                            // One of the budget actions

	CategoryID   ez_uuid.UUID    `json:"categoryId"`                                 // Category actions: the category. Optional for setCategory when categoryName is set
	CategoryName string          `json:"categoryName" example:"Mobility"`            // setCategory: resolves or creates the category by name
	CareItemSlug string          `json:"careItemSlug" example:"compression-socks"`   // Item actions: the care item slug
	Label        string          `json:"label" example:"Compression Socks"`          // setItem: display label for the care item
	Amount       decimal.Decimal `json:"amount" example:"250"`                       // Allocation amount for the set actions

	FromYear types.FiscalYear       `json:"fromYear" example:"2024"` // rolloverFromPrev: source year. Defaults to the year before `year`
	Rollover RolloverRequestOptions `json:"rollover"`                // rolloverFromPrev: what to carry over
}

// RolloverRequestOptions control what rolloverFromPrev carries into the new
// year.
type RolloverRequestOptions struct {
	CopyCategories       bool `json:"copyCategories" example:"true"`        // Copy the category and item tree
	BringSurplus         bool `json:"bringSurplus" example:"true"`          // Add the prior year's unallocated surplus
	OverwriteIfExists    bool `json:"overwriteIfExists" example:"false"`    // Replace an existing target year
	ResetItemAllocations bool `json:"resetItemAllocations" example:"false"` // Zero the copied item allocations
}

func (o RolloverRequestOptions) model() models.RolloverOptions {
	return models.RolloverOptions{
		CopyCategories:       o.CopyCategories,
		BringSurplus:         o.BringSurplus,
		OverwriteIfExists:    o.OverwriteIfExists,
		ResetItemAllocations: o.ResetItemAllocations,
	}
}

type BudgetYearLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets?client=d1c8a2c6-7a66-4eb6-b67b-1cbd31b273fc&year=2025"`         // The budget year itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?client=d1c8a2c6-7a66-4eb6-b67b-1cbd31b273fc&year=2025"` // Ledger entries for the client and year
}

type BudgetYear struct {
	models.BudgetYear
	Links BudgetYearLinks `json:"links"`
}

func newBudgetYear(c *gin.Context, model models.BudgetYear) BudgetYear {
	url := c.GetString(string(models.DBContextURL))

	return BudgetYear{
		BudgetYear: model,
		Links: BudgetYearLinks{
			Self:         fmt.Sprintf("%s/v1/budgets?client=%s&year=%s", url, model.ClientID, model.Year),
			Transactions: fmt.Sprintf("%s/v1/transactions?client=%s&year=%s", url, model.ClientID, model.Year),
		},
	}
}

type BudgetYearResponse struct {
	Data  *BudgetYear `json:"data"`                                                          // The budget year
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// BudgetQuery are the query parameters identifying one budget year.
type BudgetQuery struct {
	Client string           `form:"client"` // Client ID
	Year   types.FiscalYear `form:"year"`   // Fiscal year
}

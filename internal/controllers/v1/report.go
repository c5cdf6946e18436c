package v1

import (
	"net/http"

	"github.com/careplan/backend/internal/httputil"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
	"github.com/careplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterReportRoutes registers the routes for reports with
// the RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/category-spend", OptionsCategorySpend)
	r.GET("/category-spend", GetCategorySpend)
}

type CategorySpendResponse struct {
	Data  *models.CategorySpendReport `json:"data"`                                                          // The category spend report
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// CategorySpendQuery are the query parameters for the category spend report.
type CategorySpendQuery struct {
	Client   string           `form:"client"`   // Client ID
	Year     types.FiscalYear `form:"year"`     // Fiscal year
	Category string           `form:"category"` // Category ID
	Slug     string           `form:"slug"`     // Optional glob pattern on the care item slugs
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/category-spend [options]
func OptionsCategorySpend(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Category spend report
// @Description	Reconciles the budget allocations, the care item catalog and the net ledger spend for one category
// @Tags			Reports
// @Produce		json
// @Success		200			{object}	CategorySpendResponse
// @Failure		400			{object}	CategorySpendResponse
// @Failure		401			{object}	CategorySpendResponse
// @Failure		500			{object}	CategorySpendResponse
// @Param			client		query		string	true	"Client ID"
// @Param			year		query		int		true	"Fiscal year"
// @Param			category	query		string	true	"Category ID"
// @Param			slug		query		string	false	"Glob pattern on the care item slugs, e.g. compression-*"
// @Router			/v1/reports/category-spend [get]
func GetCategorySpend(c *gin.Context) {
	_, err := identity.Require(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategorySpendResponse{Error: &s})
		return
	}

	var query CategorySpendQuery
	if err := c.ShouldBind(&query); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(status(httputil.ErrInvalidQuery), CategorySpendResponse{Error: &s})
		return
	}

	clientID, err := httputil.UUIDFromString(query.Client)
	if err != nil || clientID == uuid.Nil {
		s := errClientIDParameter.Error()
		c.JSON(status(errClientIDParameter), CategorySpendResponse{Error: &s})
		return
	}

	if query.Year.IsZero() {
		s := errYearParameter.Error()
		c.JSON(status(errYearParameter), CategorySpendResponse{Error: &s})
		return
	}

	categoryID, err := httputil.UUIDFromString(query.Category)
	if err != nil || categoryID == uuid.Nil {
		s := errCategoryParameter.Error()
		c.JSON(status(errCategoryParameter), CategorySpendResponse{Error: &s})
		return
	}

	report, err := models.CategorySpend(models.DB, clientID, query.Year, categoryID, query.Slug)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategorySpendResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, CategorySpendResponse{Data: &report})
}

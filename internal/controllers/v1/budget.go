package v1

import (
	"net/http"

	"github.com/careplan/backend/internal/events"
	"github.com/careplan/backend/internal/httputil"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
	"github.com/careplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterBudgetRoutes registers the routes for budget years with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBudget)
		r.GET("", GetBudget)
	}

	{
		r.OPTIONS("/manage", OptionsBudgetManage)
		r.POST("/manage", ManageBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudget(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/manage [options]
func OptionsBudgetManage(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get budget year
// @Description	Returns the budget year document for a client, including all category and item allocations
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetYearResponse
// @Failure		400		{object}	BudgetYearResponse
// @Failure		401		{object}	BudgetYearResponse
// @Failure		404		{object}	BudgetYearResponse
// @Failure		500		{object}	BudgetYearResponse
// @Param			client	query		string	true	"Client ID"
// @Param			year	query		int		true	"Fiscal year"
// @Router			/v1/budgets [get]
func GetBudget(c *gin.Context) {
	_, err := identity.Require(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	clientID, year, err := budgetQuery(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	budgetYear, err := models.BudgetYearFor(models.DB, clientID, year)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	data := newBudgetYear(c, budgetYear)
	c.JSON(http.StatusOK, BudgetYearResponse{Data: &data})
}

// @Summary		Manage budget year
// @Description	Applies one budget action to a client's budget year. The first action for a year creates it.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetYearResponse
// @Failure		400		{object}	BudgetYearResponse
// @Failure		401		{object}	BudgetYearResponse
// @Failure		403		{object}	BudgetYearResponse
// @Failure		404		{object}	BudgetYearResponse
// @Failure		409		{object}	BudgetYearResponse
// @Failure		422		{object}	BudgetYearResponse
// @Failure		500		{object}	BudgetYearResponse
// @Param			action	body		BudgetActionRequest	true	"Budget action"
// @Router			/v1/budgets/manage [post]
func ManageBudget(c *gin.Context) {
	_, err := identity.Require(c, identity.RoleFamily, identity.RoleManagement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	var request BudgetActionRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	if request.ClientID.UUID == uuid.Nil {
		s := errClientIDParameter.Error()
		c.JSON(status(errClientIDParameter), BudgetYearResponse{Error: &s})
		return
	}

	if request.Year.IsZero() {
		s := errYearParameter.Error()
		c.JSON(status(errYearParameter), BudgetYearResponse{Error: &s})
		return
	}

	budgetYear, err := applyBudgetAction(c, request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetYearResponse{Error: &s})
		return
	}

	events.PublishBudgetChanged(c.Request.Context(), request.ClientID.UUID, request.Year)

	data := newBudgetYear(c, budgetYear)
	c.JSON(http.StatusOK, BudgetYearResponse{Data: &data})
}

// applyBudgetAction dispatches the request to the matching budget action.
func applyBudgetAction(c *gin.Context, request BudgetActionRequest) (models.BudgetYear, error) {
	clientID := request.ClientID.UUID

	switch request.Action {
	case actionSetAnnual:
		return models.SetAnnual(models.DB, clientID, request.Year, request.Amount)

	case actionSetCategory:
		categoryID, name, err := resolveCategory(request)
		if err != nil {
			return models.BudgetYear{}, err
		}

		return models.SetCategory(models.DB, clientID, request.Year, categoryID, name, request.Amount)

	case actionSetItem:
		if request.CategoryID.UUID == uuid.Nil {
			return models.BudgetYear{}, errCategoryParameter
		}

		return models.SetItem(models.DB, clientID, request.Year, request.CategoryID.UUID, request.CareItemSlug, request.Label, request.Amount)

	case actionReleaseCategory:
		if request.CategoryID.UUID == uuid.Nil {
			return models.BudgetYear{}, errCategoryParameter
		}

		return models.ReleaseCategory(models.DB, clientID, request.Year, request.CategoryID.UUID)

	case actionReleaseItem:
		if request.CategoryID.UUID == uuid.Nil {
			return models.BudgetYear{}, errCategoryParameter
		}

		return models.ReleaseItem(models.DB, clientID, request.Year, request.CategoryID.UUID, request.CareItemSlug)

	case actionRolloverFromPrev:
		fromYear := request.FromYear
		if fromYear.IsZero() {
			fromYear = request.Year.Prev()
		}

		return models.Rollover(models.DB, clientID, fromYear, request.Year, request.Rollover.model())
	}

	return models.BudgetYear{}, errActionInvalid
}

// resolveCategory resolves the category for setCategory. When no ID is
// given, the category is resolved or created by name.
func resolveCategory(request BudgetActionRequest) (uuid.UUID, string, error) {
	if request.CategoryID.UUID != uuid.Nil {
		return request.CategoryID.UUID, request.CategoryName, nil
	}

	if request.CategoryName == "" {
		return uuid.Nil, "", errCategoryNotIdentified
	}

	category, err := models.EnsureCategory(models.DB, request.CategoryName)
	if err != nil {
		return uuid.Nil, "", err
	}

	return category.ID, category.Name, nil
}

// budgetQuery parses and validates the client and year query parameters.
func budgetQuery(c *gin.Context) (uuid.UUID, types.FiscalYear, error) {
	var query BudgetQuery
	if err := c.ShouldBind(&query); err != nil {
		return uuid.Nil, 0, httputil.ErrInvalidQuery
	}

	clientID, err := httputil.UUIDFromString(query.Client)
	if err != nil {
		return uuid.Nil, 0, err
	}
	if clientID == uuid.Nil {
		return uuid.Nil, 0, errClientIDParameter
	}

	if query.Year.IsZero() {
		return uuid.Nil, 0, errYearParameter
	}

	return clientID, query.Year, nil
}

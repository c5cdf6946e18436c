package v1

import (
	"net/http"

	"github.com/careplan/backend/internal/httputil"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterCareItemRoutes registers the routes for the care item catalog with
// the RouterGroup that is passed.
func RegisterCareItemRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCareItemList)
	r.GET("", GetCareItems)
	r.POST("", CreateCareItems)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CareItems
// @Success		204
// @Router			/v1/care-items [options]
func OptionsCareItemList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Create care items
// @Description	Creates new catalog care items
// @Tags			CareItems
// @Produce		json
// @Success		201			{object}	CareItemCreateResponse
// @Failure		400			{object}	CareItemCreateResponse
// @Failure		401			{object}	CareItemCreateResponse
// @Failure		403			{object}	CareItemCreateResponse
// @Failure		422			{object}	CareItemCreateResponse
// @Failure		500			{object}	CareItemCreateResponse
// @Param			careItems	body		[]CareItemEditable	true	"Care items"
// @Router			/v1/care-items [post]
func CreateCareItems(c *gin.Context) {
	_, err := identity.Require(c, identity.RoleFamily, identity.RoleManagement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CareItemCreateResponse{Error: &s})
		return
	}

	var editables []CareItemEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CareItemCreateResponse{Error: &s})
		return
	}

	// The final http status. Will be modified when errors occur
	httpStatus := http.StatusCreated
	r := CareItemCreateResponse{}

	for _, editable := range editables {
		item := editable.model()

		err = models.DB.Create(&item).Error
		if err != nil {
			httpStatus = r.appendError(err, httpStatus)
			continue
		}

		data := newCareItem(c, item)
		r.Data = append(r.Data, CareItemResponse{Data: &data})
	}

	c.JSON(httpStatus, r)
}

// @Summary		Get care items
// @Description	Returns the care item catalog for a client and category
// @Tags			CareItems
// @Produce		json
// @Success		200			{object}	CareItemListResponse
// @Failure		400			{object}	CareItemListResponse
// @Failure		401			{object}	CareItemListResponse
// @Failure		500			{object}	CareItemListResponse
// @Param			client		query		string	true	"Client ID"
// @Param			category	query		string	true	"Category ID"
// @Router			/v1/care-items [get]
func GetCareItems(c *gin.Context) {
	_, err := identity.Require(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CareItemListResponse{Error: &s})
		return
	}

	var query CareItemQuery
	if err := c.ShouldBind(&query); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(status(httputil.ErrInvalidQuery), CareItemListResponse{Error: &s})
		return
	}

	clientID, err := httputil.UUIDFromString(query.Client)
	if err != nil || clientID == uuid.Nil {
		s := errClientIDParameter.Error()
		c.JSON(status(errClientIDParameter), CareItemListResponse{Error: &s})
		return
	}

	categoryID, err := httputil.UUIDFromString(query.Category)
	if err != nil || categoryID == uuid.Nil {
		s := errCategoryParameter.Error()
		c.JSON(status(errCategoryParameter), CareItemListResponse{Error: &s})
		return
	}

	items, err := models.CareItems(models.DB, clientID, categoryID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CareItemListResponse{Error: &s})
		return
	}

	data := make([]CareItem, 0)
	for _, item := range items {
		data = append(data, newCareItem(c, item))
	}

	c.JSON(http.StatusOK, CareItemListResponse{Data: data})
}

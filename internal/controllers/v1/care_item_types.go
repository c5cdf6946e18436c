package v1

import (
	"fmt"

	"github.com/careplan/backend/internal/models"
	ez_uuid "github.com/careplan/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

// CareItemEditable represents all user configurable parameters of a catalog
// care item
type CareItemEditable struct {
	ClientID   ez_uuid.UUID `json:"clientId" example:"d1c8a2c6-7a66-4eb6-b67b-1cbd31b273fc"`   // Client the item is cataloged for
	CategoryID ez_uuid.UUID `json:"categoryId" example:"aea36d0d-d6c4-4022-9fc7-0ff842defbcf"` // Category the item belongs to
	Slug       string       `json:"slug" example:"compression-socks" default:""`               // Normalized identifier, derived from the label when empty
	Label      string       `json:"label" example:"Compression Socks"`                         // Display label
}

func (editable CareItemEditable) model() models.CareItem {
	return models.CareItem{
		ClientID:   editable.ClientID.UUID,
		CategoryID: editable.CategoryID.UUID,
		Slug:       editable.Slug,
		Label:      editable.Label,
	}
}

type CareItemLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/care-items/5e363b20-e78a-4b7a-8232-b49a36b571a1"` // The care item itself
}

type CareItem struct {
	models.CareItem
	Links CareItemLinks `json:"links"`
}

func newCareItem(c *gin.Context, model models.CareItem) CareItem {
	url := c.GetString(string(models.DBContextURL))

	return CareItem{
		CareItem: model,
		Links: CareItemLinks{
			Self: fmt.Sprintf("%s/v1/care-items/%s", url, model.ID),
		},
	}
}

type CareItemResponse struct {
	Data  *CareItem `json:"data"`                                                          // Data for the care item
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CareItemCreateResponse struct {
	Data  []CareItemResponse `json:"data"`                                                          // The created care items or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CareItemCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CareItemResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CareItemListResponse struct {
	Data  []CareItem `json:"data"`                                                          // List of care items
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// CareItemQuery are the query parameters for the care item catalog.
type CareItemQuery struct {
	Client   string `form:"client"`   // Client ID
	Category string `form:"category"` // Category ID
}

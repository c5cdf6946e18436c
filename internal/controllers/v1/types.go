package v1

import (
	ez_uuid "github.com/careplan/backend/internal/uuid"
)

// URIID is the URI parameter for endpoints addressing a single resource
type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required"`
}

// Pagination contains information about the pagination for list endpoint responses
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

package v1

import (
	"errors"
	"net/http"

	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, identity.ErrUnauthorised) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, identity.ErrForbidden) {
		return http.StatusForbidden
	}

	if errors.Is(err, models.ErrResourceNotFound) ||
		errors.Is(err, models.ErrCategoryNotFound) ||
		errors.Is(err, models.ErrItemNotFound) ||
		errors.Is(err, models.ErrOriginalNotFound) ||
		errors.Is(err, models.ErrOriginalLineNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrPastYearReadOnly) ||
		errors.Is(err, models.ErrBudgetYearExists) ||
		errors.Is(err, models.ErrTransactionVoided) {
		return http.StatusConflict
	}

	if errors.Is(err, models.ErrItemsExceedCategory) ||
		errors.Is(err, models.ErrInvalidAmount) ||
		errors.Is(err, models.ErrNoLines) ||
		errors.Is(err, models.ErrYearMismatch) ||
		errors.Is(err, models.ErrRefundExceedsOriginal) ||
		errors.Is(err, models.ErrCategoryNameNotUnique) ||
		errors.Is(err, models.ErrCareItemNotUnique) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusBadRequest
}

var (
	errActionInvalid          = errors.New("the specified budget action is invalid")
	errClientIDParameter      = errors.New("the client parameter must be set to a valid UUID")
	errYearParameter          = errors.New("the year parameter must be set")
	errCategoryParameter      = errors.New("the category parameter must be set to a valid UUID")
	errCategoryNotIdentified  = errors.New("either categoryId or categoryName must be set for this action")
	errTransactionTypeInvalid = errors.New("the specified transaction type is invalid")
)

package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Budget year errors
var (
	ErrPastYearReadOnly    = errors.New("budget years in the past are read-only")
	ErrBudgetYearExists    = errors.New("a budget for this client and year already exists")
	ErrCategoryNotFound    = errors.New("the budget year has no allocation for this category")
	ErrItemNotFound        = errors.New("the category has no allocation for this care item")
	ErrItemsExceedCategory = errors.New("the care item allocations would exceed the category allocation")
)

// Ledger errors
var (
	ErrInvalidAmount         = errors.New("amounts must be numbers greater than or equal to zero")
	ErrNoLines               = errors.New("a transaction must have at least one line")
	ErrTransactionVoided     = errors.New("this transaction has already been voided")
	ErrOriginalNotFound      = errors.New("there is no purchase matching the refund reference")
	ErrOriginalLineNotFound  = errors.New("the referenced purchase has no line with this ID")
	ErrYearMismatch          = errors.New("refunds must be recorded in the same year as the purchase they refund")
	ErrRefundExceedsOriginal = errors.New("the refund amount exceeds the remaining refundable balance of the purchase line")
)

// Catalog errors, used by the database error callbacks
var (
	ErrCategoryNameNotUnique = errors.New("the category name is already in use")
	ErrCareItemNotUnique     = errors.New("the care item slug is already in use for this client and category")
)

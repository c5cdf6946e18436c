package v1

import (
	"fmt"
	"time"

	"github.com/careplan/backend/internal/httputil"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
	"github.com/careplan/backend/internal/types"
	ez_uuid "github.com/careplan/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLineEditable represents all user configurable parameters of a
// transaction line
type TransactionLineEditable struct {
	CategoryID            ez_uuid.UUID    `json:"categoryId" example:"aea36d0d-d6c4-4022-9fc7-0ff842defbcf"` // Category the line counts against
	CareItemSlug          string          `json:"careItemSlug" example:"toothbrush" default:""`              // Care item slug, derived from the label when empty
	Label                 string          `json:"label" example:"Toothbrush" default:""`                     // Display label of the line
	Amount                decimal.Decimal `json:"amount" example:"14.03"`                                    // Line amount, always positive
	RefundOfTransactionID ez_uuid.UUID    `json:"refundOfTransId"`                                           // Refunds: the original purchase
	RefundOfLineID        ez_uuid.UUID    `json:"refundOfLineId"`                                            // Refunds: the original purchase line
}

// TransactionEditable represents all user configurable parameters of a
// transaction
type TransactionEditable struct {
	ClientID   ez_uuid.UUID              `json:"clientId" example:"d1c8a2c6-7a66-4eb6-b67b-1cbd31b273fc"` // Client the transaction belongs to
	Type       models.TransactionType    `json:"type" example:"PURCHASE"`                                 // PURCHASE or REFUND
	Date       time.Time                 `json:"date" example:"2025-03-14T00:00:00Z"`                     // Date of the purchase or refund, defaults to now
	ReceiptURL string                    `json:"receiptUrl" default:""`                                   // Link to the receipt document
	Note       string                    `json:"note" default:""`                                         // Free-form note
	Lines      []TransactionLineEditable `json:"lines"`                                                   // Itemized lines, at least one
}

func (editable TransactionEditable) input(requester identity.Requester) models.PurchaseInput {
	input := models.PurchaseInput{
		ClientID:     editable.ClientID.UUID,
		Date:         editable.Date,
		MadeByUserID: requester.UserID,
		ReceiptURL:   editable.ReceiptURL,
		Note:         editable.Note,
	}

	for _, line := range editable.Lines {
		input.Lines = append(input.Lines, models.LineInput{
			CategoryID:            line.CategoryID.UUID,
			CareItemSlug:          line.CareItemSlug,
			Label:                 line.Label,
			Amount:                line.Amount,
			RefundOfTransactionID: line.RefundOfTransactionID.UUID,
			RefundOfLineID:        line.RefundOfLineID.UUID,
		})
	}

	return input
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

type Transaction struct {
	models.Transaction
	Links TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		Transaction: model,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

// TransactionQueryFilter contains the query parameters for the transaction
// list endpoint
type TransactionQueryFilter struct {
	Client    string           `form:"client"`    // By client ID
	Year      types.FiscalYear `form:"year"`      // By fiscal year
	Type      string           `form:"type"`      // PURCHASE or REFUND
	FromDate  string           `form:"fromDate"`  // Transactions at or after this date, RFC 3339
	UntilDate string           `form:"untilDate"` // Transactions at or before this date, RFC 3339
	Category  string           `form:"category"`  // Transactions with a line for this category ID
	Slug      string           `form:"slug"`      // Transactions with a line for this care item slug
	Note      string           `form:"note"`      // By text in the note
	Voided    string           `form:"voided"`    // "true" limits to voided, "false" to non-voided transactions
	Offset    uint             `form:"offset"`    // The offset of the first transaction returned. Defaults to 0.
	Limit     int              `form:"limit"`     // Maximum number of transactions to return. Defaults to 50.
}

// clientID parses the client filter, uuid.Nil when unset.
func (f TransactionQueryFilter) clientID() (uuid.UUID, error) {
	return httputil.UUIDFromString(f.Client)
}

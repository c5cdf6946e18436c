package v1

import (
	"net/http"
	"time"

	"github.com/careplan/backend/internal/events"
	"github.com/careplan/backend/internal/httputil"
	"github.com/careplan/backend/internal/identity"
	"github.com/careplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.DELETE("/:id", VoidTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Record transaction
// @Description	Appends a purchase or refund to the ledger and reconciles the budget year it falls into
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		401			{object}	TransactionResponse
// @Failure		403			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		422			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	requester, err := identity.Require(c, identity.RoleCarer, identity.RoleManagement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var editable TransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	if editable.ClientID.UUID == uuid.Nil {
		s := errClientIDParameter.Error()
		c.JSON(status(errClientIDParameter), TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	switch editable.Type {
	case models.TransactionTypePurchase:
		transaction, err = models.RecordPurchase(models.DB, editable.input(requester))
	case models.TransactionTypeRefund:
		transaction, err = models.RecordRefund(models.DB, editable.input(requester))
	default:
		err = errTransactionTypeInvalid
	}

	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	events.PublishBudgetChanged(c.Request.Context(), transaction.ClientID, transaction.Year)

	data := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns a list of ledger transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		401	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			client		query	string	false	"Filter by client ID"
// @Param			year		query	int		false	"Filter by fiscal year"
// @Param			type		query	string	false	"Filter by type, PURCHASE or REFUND"
// @Param			fromDate	query	string	false	"Transactions at or after this date, RFC 3339"
// @Param			untilDate	query	string	false	"Transactions at or before this date, RFC 3339"
// @Param			category	query	string	false	"Transactions with a line for this category ID"
// @Param			slug		query	string	false	"Transactions with a line for this care item slug"
// @Param			note		query	string	false	"Search for this text in the note"
// @Param			voided		query	bool	false	"Limit to voided or non-voided transactions"
// @Param			offset		query	uint	false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	_, err := identity.Require(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	var filter TransactionQueryFilter
	if err := c.ShouldBind(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(status(httputil.ErrInvalidQuery), TransactionListResponse{Error: &s})
		return
	}

	q, err := transactionQuery(filter)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 transactions and set the limit
	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	data := make([]Transaction, 0)
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// transactionQuery builds the filtered ledger query.
func transactionQuery(filter TransactionQueryFilter) (*gorm.DB, error) {
	q := models.DB.
		Preload("Lines").
		Order("date(transactions.date) DESC, transactions.created_at DESC")

	clientID, err := filter.clientID()
	if err != nil {
		return nil, err
	}
	if clientID != uuid.Nil {
		q = q.Where("transactions.client_id = ?", clientID)
	}

	if !filter.Year.IsZero() {
		q = q.Where("transactions.year = ?", filter.Year)
	}

	if filter.Type != "" {
		transactionType := models.TransactionType(filter.Type)
		if transactionType != models.TransactionTypePurchase && transactionType != models.TransactionTypeRefund {
			return nil, errTransactionTypeInvalid
		}
		q = q.Where("transactions.type = ?", transactionType)
	}

	if filter.FromDate != "" {
		fromDate, err := time.Parse(time.RFC3339, filter.FromDate)
		if err != nil {
			return nil, httputil.ErrInvalidQuery
		}
		q = q.Where("transactions.date >= ?", fromDate.In(time.UTC))
	}

	if filter.UntilDate != "" {
		untilDate, err := time.Parse(time.RFC3339, filter.UntilDate)
		if err != nil {
			return nil, httputil.ErrInvalidQuery
		}
		q = q.Where("transactions.date <= ?", untilDate.In(time.UTC))
	}

	if filter.Category != "" || filter.Slug != "" {
		lines := models.DB.Model(&models.TransactionLine{}).Select("transaction_id")

		if filter.Category != "" {
			categoryID, err := httputil.UUIDFromString(filter.Category)
			if err != nil {
				return nil, err
			}
			lines = lines.Where("category_id = ?", categoryID)
		}

		if filter.Slug != "" {
			lines = lines.Where("care_item_slug = ?", filter.Slug)
		}

		q = q.Where("transactions.id IN (?)", lines)
	}

	if filter.Note != "" {
		q = q.Where("transactions.note LIKE ?", "%"+filter.Note+"%")
	}

	switch filter.Voided {
	case "":
	case "true":
		q = q.Where("transactions.voided_at IS NOT NULL")
	case "false":
		q = q.Where("transactions.voided_at IS NULL")
	default:
		return nil, httputil.ErrInvalidQuery
	}

	return q, nil
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		401	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	_, err := identity.Require(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	err = models.DB.Preload("Lines").First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Void transaction
// @Description	Voids a transaction. The ledger entry is kept, but every aggregation drops it.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func VoidTransaction(c *gin.Context) {
	_, err := identity.Require(c, identity.RoleCarer, identity.RoleManagement)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = transaction.Void(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	events.PublishBudgetChanged(c.Request.Context(), transaction.ClientID, transaction.Year)

	c.JSON(http.StatusNoContent, nil)
}

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/SscSPs/personal_ledger/internal/utils/export"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the posting engine over HTTP.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	accountService     portssvc.AccountReaderSvc
	categoryService    portssvc.CategoryReaderSvc
}

// RegisterTransactionRoutes registers transaction and tag routes. The account and
// category readers are only used to label exported rows.
func RegisterTransactionRoutes(
	rg *gin.RouterGroup,
	transactionService portssvc.TransactionSvcFacade,
	accountService portssvc.AccountReaderSvc,
	categoryService portssvc.CategoryReaderSvc,
) {
	h := &transactionHandler{
		transactionService: transactionService,
		accountService:     accountService,
		categoryService:    categoryService,
	}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/export", h.exportTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
	rg.GET("/tags", h.listTags)
}

// createTransaction godoc
// @Summary Post a transaction
// @Description Validates the transaction against its type, applies its balance effect and stores it in one unit of work.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} InsufficientFundsResponse "Invalid transaction or insufficient funds"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	logger.Info("Received request to create transaction", slog.String("type", string(req.Type)), slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with optional filters and token pagination
// @Tags transactions
// @Produce  json
// @Param   type query string false "Transaction type"
// @Param   categoryID query string false "Category ID"
// @Param   accountID query string false "Account ID, matched on either side"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date, inclusive (YYYY-MM-DD)"
// @Param   tag query string false "Tag name"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// exportTransactions godoc
// @Summary Export transactions
// @Description Downloads every transaction matching the filters as an XLSX workbook
// @Tags transactions
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   type query string false "Transaction type"
// @Param   categoryID query string false "Category ID"
// @Param   accountID query string false "Account ID"
// @Param   startDate query string false "Start date (YYYY-MM-DD)"
// @Param   endDate query string false "End date, inclusive (YYYY-MM-DD)"
// @Param   tag query string false "Tag name"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to export transactions"
// @Security BearerAuth
// @Router /transactions/export [get]
func (h *transactionHandler) exportTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	ctx := c.Request.Context()
	txns, err := h.transactionService.ExportTransactions(ctx, userID, params)
	if err != nil {
		respondWithError(c, err, "Failed to export transactions")
		return
	}
	names, err := h.exportNames(c, userID)
	if err != nil {
		respondWithError(c, err, "Failed to export transactions")
		return
	}

	f, err := export.TransactionsWorkbook(txns, names)
	if err != nil {
		respondWithError(c, err, "Failed to export transactions")
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("Failed to close workbook", slog.String("error", cerr.Error()))
		}
	}()

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"", time.Now().Format("20060102")))
	if err := f.Write(c.Writer); err != nil {
		logger.Error("Failed to write workbook", slog.String("error", err.Error()))
		return
	}
	logger.Info("Transactions exported", slog.Int("count", len(txns)))
}

// exportNames maps the user's account and category ids to display names.
func (h *transactionHandler) exportNames(c *gin.Context, userID string) (export.Names, error) {
	names := export.Names{Accounts: map[string]string{}, Categories: map[string]string{}}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		return names, err
	}
	for _, a := range accounts {
		names.Accounts[a.AccountID] = a.Name
	}

	roots, err := h.categoryService.ListCategoryTree(c.Request.Context(), userID, nil)
	if err != nil {
		return names, err
	}
	var walk func([]domain.Category)
	walk = func(cats []domain.Category) {
		for _, cat := range cats {
			names.Categories[cat.CategoryID] = cat.Name
			walk(cat.Children)
		}
	}
	walk(roots)
	return names, nil
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Changes category, date, notes, location, merchant, receipt number or tags. Amount and accounts cannot change.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	transactionID := c.Param("id")
	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		respondWithError(c, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated successfully", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverses the balance effect of the transaction and removes it.
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// listTags godoc
// @Summary List tags
// @Tags transactions
// @Produce  json
// @Success 200 {array} domain.Tag
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list tags"
// @Security BearerAuth
// @Router /tags [get]
func (h *transactionHandler) listTags(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	tags, err := h.transactionService.ListTags(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

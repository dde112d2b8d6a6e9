package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

// RegisterBudgetRoutes registers routes related to budgets.
func RegisterBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	registerValidators()
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/usage", h.budgetUsage)
		budgets.GET("/:id", h.getBudget)
		budgets.PUT("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deleteBudget)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a spending budget for a category. Only one active budget may exist per category and period.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 409 {object} ErrorResponse "Budget already exists"
// @Failure 500 {object} ErrorResponse "Failed to create budget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create budget")
		return
	}

	logger.Info("Budget created successfully", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Param   period query string false "daily, weekly, monthly or yearly"
// @Success 200 {array} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list budgets"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListBudgetsParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	var period *domain.BudgetPeriod
	if params.Period != "" {
		p := domain.BudgetPeriod(params.Period)
		period = &p
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

// budgetUsage godoc
// @Summary Monthly budget usage
// @Description Reports spending against every active monthly budget for the current month
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetUsageResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute budget usage"
// @Security BearerAuth
// @Router /budgets/usage [get]
func (h *budgetHandler) budgetUsage(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	usages, err := h.budgetService.BudgetUsage(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to compute budget usage")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetUsageResponses(usages))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Budget not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve budget"
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   id path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Budget not found"
// @Failure 409 {object} ErrorResponse "Another active budget covers the category"
// @Failure 500 {object} ErrorResponse "Failed to update budget"
// @Security BearerAuth
// @Router /budgets/{id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Deactivate a budget
// @Tags budgets
// @Param   id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Budget not found"
// @Failure 500 {object} ErrorResponse "Failed to delete budget"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

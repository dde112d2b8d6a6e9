package handlers

import (
	"net/http"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type statisticsHandler struct {
	statisticsService portssvc.StatisticsSvcFacade
	budgetService     portssvc.BudgetSvcFacade
}

// RegisterStatisticsRoutes registers the read-only reporting routes.
func RegisterStatisticsRoutes(rg *gin.RouterGroup, statisticsService portssvc.StatisticsSvcFacade, budgetService portssvc.BudgetSvcFacade) {
	h := &statisticsHandler{statisticsService: statisticsService, budgetService: budgetService}

	stats := rg.Group("/statistics")
	{
		stats.GET("/overview", h.overview)
		stats.GET("/trend", h.trend)
		stats.GET("/budgets", h.budgets)
	}
}

// overview godoc
// @Summary Income and expense overview
// @Description Totals for the current week, month or year, with expenses broken down by root category. Any other period means the last 30 days.
// @Tags statistics
// @Produce  json
// @Param   period query string false "week, month or year" default(month)
// @Success 200 {object} domain.Overview
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute overview"
// @Security BearerAuth
// @Router /statistics/overview [get]
func (h *statisticsHandler) overview(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.OverviewParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	overview, err := h.statisticsService.Overview(c.Request.Context(), userID, domain.StatsPeriod(params.Period))
	if err != nil {
		respondWithError(c, err, "Failed to compute overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// trend godoc
// @Summary Income or expense trend
// @Tags statistics
// @Produce  json
// @Param   type query string false "income or expense" default(expense)
// @Param   granularity query string false "daily, weekly or monthly" default(monthly)
// @Param   months query int false "Trailing months, 30 days each" default(6)
// @Success 200 {object} dto.TrendResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute trend"
// @Security BearerAuth
// @Router /statistics/trend [get]
func (h *statisticsHandler) trend(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.TrendParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	txType := domain.TransactionType(params.Type)
	granularity := domain.TrendGranularity(params.Granularity)
	points, err := h.statisticsService.Trend(c.Request.Context(), userID, txType, granularity, params.Months)
	if err != nil {
		respondWithError(c, err, "Failed to compute trend")
		return
	}
	c.JSON(http.StatusOK, dto.TrendResponse{Type: txType, Granularity: granularity, Points: points})
}

// budgets godoc
// @Summary Budget usage for the current month
// @Tags statistics
// @Produce  json
// @Success 200 {array} dto.BudgetUsageResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute budget usage"
// @Security BearerAuth
// @Router /statistics/budgets [get]
func (h *statisticsHandler) budgets(c *gin.Context) {
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

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

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// RegisterCategoryRoutes registers routes related to categories.
func RegisterCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: categoryService}

	cats := rg.Group("/categories")
	{
		cats.POST("", h.createCategory)
		cats.GET("", h.listCategories)
		cats.POST("/init", h.initDefaultCategories)
		cats.GET("/:id", h.getCategory)
		cats.PUT("/:id", h.updateCategory)
		cats.DELETE("/:id", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Description Creates a root category, or a child of an existing root of the same type
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse "Invalid input or parent"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create category"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateCategoryRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to create category")
		return
	}

	logger.Info("Category created successfully", slog.String("category_id", cat.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(cat))
}

// listCategories godoc
// @Summary List the category tree
// @Description Lists active root categories with their active children
// @Tags categories
// @Produce  json
// @Param   type query string false "income or expense"
// @Success 200 {array} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list categories"
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListCategoriesParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	var catType *domain.CategoryType
	if params.Type != "" {
		t := domain.CategoryType(params.Type)
		catType = &t
	}

	tree, err := h.categoryService.ListCategoryTree(c.Request.Context(), userID, catType)
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(tree))
}

// initDefaultCategories godoc
// @Summary Seed default categories
// @Description Creates the default category tree when the user has no categories yet
// @Tags categories
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to initialize categories"
// @Security BearerAuth
// @Router /categories/init [post]
func (h *categoryHandler) initDefaultCategories(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	if err := h.categoryService.InitDefaultCategories(c.Request.Context(), userID); err != nil {
		respondWithError(c, err, "Failed to initialize categories")
		return
	}
	c.Status(http.StatusNoContent)
}

// getCategory godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce  json
// @Param   id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve category"
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	cat, err := h.categoryService.GetCategoryByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(cat))
}

// updateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   id path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 500 {object} ErrorResponse "Failed to update category"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(cat))
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Deletes a user category and its children. System categories cannot be deleted.
// @Tags categories
// @Param   id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "System category"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 500 {object} ErrorResponse "Failed to delete category"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	categoryID := c.Param("id")
	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		respondWithError(c, err, "Failed to delete category")
		return
	}

	logger.Info("Category deleted successfully", slog.String("category_id", categoryID))
	c.Status(http.StatusNoContent)
}

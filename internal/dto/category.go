package dto

import (
	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name      string              `json:"name" binding:"required,max=50"`
	Type      domain.CategoryType `json:"type" binding:"required,oneof=income expense"`
	ParentID  *string             `json:"parentID"`
	Icon      string              `json:"icon" binding:"max=50"`
	Color     string              `json:"color" binding:"max=20"`
	SortOrder int                 `json:"sortOrder"`
}

// UpdateCategoryRequest defines the editable fields of a category.
type UpdateCategoryRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=50"`
	Icon      *string `json:"icon" binding:"omitempty,max=50"`
	Color     *string `json:"color" binding:"omitempty,max=20"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

// ListCategoriesParams filters the category tree.
type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,oneof=income expense"`
}

// CategoryResponse is a category with its children when listed as a tree.
type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Type       domain.CategoryType `json:"type"`
	ParentID   *string             `json:"parentID,omitempty"`
	Icon       string              `json:"icon"`
	Color      string              `json:"color"`
	IsSystem   bool                `json:"isSystem"`
	IsActive   bool                `json:"isActive"`
	SortOrder  int                 `json:"sortOrder"`
	Children   []CategoryResponse  `json:"children,omitempty"`
}

// ToCategoryResponse converts a domain.Category, children included.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	resp := CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Type:       c.Type,
		ParentID:   c.ParentID,
		Icon:       c.Icon,
		Color:      c.Color,
		IsSystem:   c.IsSystem,
		IsActive:   c.IsActive,
		SortOrder:  c.SortOrder,
	}
	if len(c.Children) > 0 {
		resp.Children = ToCategoryResponses(c.Children)
	}
	return resp
}

// ToCategoryResponses converts a slice of categories.
func ToCategoryResponses(cats []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		res[i] = ToCategoryResponse(&c)
	}
	return res
}

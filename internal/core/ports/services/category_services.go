package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// GetCategoryByID returns a category owned by userID.
	GetCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error)

	// ListCategoryTree returns active roots with their active children.
	ListCategoryTree(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	// CreateCategory persists a root or child category.
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)

	// UpdateCategory updates descriptive fields of a category.
	UpdateCategory(ctx context.Context, userID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory removes a non-system category and its children.
	DeleteCategory(ctx context.Context, userID string, categoryID string) error

	// InitDefaultCategories seeds the default tree for a user without categories.
	InitDefaultCategories(ctx context.Context, userID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}

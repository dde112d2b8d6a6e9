package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/seed"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	categoryRepo portsrepo.CategoryRepositoryFacade
	catalog      func() (*seed.CategoryCatalog, error)
}

// NewCategoryService creates a new category service seeded from the embedded catalog.
func NewCategoryService(txManager portsrepo.TransactionManager, categoryRepo portsrepo.CategoryRepositoryFacade, options ...ServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{
		txManager:    txManager,
		categoryRepo: categoryRepo,
		catalog:      seed.DefaultCategories,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) GetCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryForUser(ctx, userID, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category", slog.String("category_id", categoryID))
		}
		return nil, err
	}
	return category, nil
}

// ListCategoryTree returns active roots, each with its active children.
func (s *categoryService) ListCategoryTree(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	if categoryType != nil && !categoryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, *categoryType)
	}
	cats, err := s.categoryRepo.ListCategories(ctx, userID, categoryType, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("user_id", userID))
		return nil, err
	}
	return domain.BuildCategoryTree(cats), nil
}

// CreateCategory adds a root, or a child under an existing root of the same type.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, req.Type)
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.categoryRepo.FindCategoryForUser(ctx, userID, *req.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category %s does not exist", apperrors.ErrValidation, *req.ParentID)
			}
			return nil, err
		}
		if !parent.IsRoot() {
			return nil, fmt.Errorf("%w: categories nest only one level deep", apperrors.ErrValidation)
		}
		if parent.Type != req.Type {
			return nil, fmt.Errorf("%w: parent category has type %s", apperrors.ErrValidation, parent.Type)
		}
		parentID = &parent.CategoryID
	}

	now := s.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Type:        req.Type,
		ParentID:    parentID,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("category_id", category.CategoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", apperrors.ErrValidation)
		}
		category.Name = name
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = s.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

// DeleteCategory hard deletes a user category. System categories are kept.
func (s *categoryService) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return fmt.Errorf("%w: system categories cannot be deleted", apperrors.ErrForbidden)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, userID, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}

// InitDefaultCategories seeds the catalog for a user who has no categories yet.
// It is a no-op otherwise, so repeated calls never duplicate the tree.
func (s *categoryService) InitDefaultCategories(ctx context.Context, userID string) error {
	count, err := s.categoryRepo.CountCategories(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count categories", slog.String("user_id", userID))
		return err
	}
	if count > 0 {
		s.LogDebug(ctx, "User already has categories, skipping defaults", slog.String("user_id", userID))
		return nil
	}

	catalog, err := s.catalog()
	if err != nil {
		s.LogError(ctx, err, "Failed to load default categories")
		return err
	}
	cats := s.expandCatalog(userID, catalog)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin category seeding")
		return err
	}
	defer s.rollback(ctx, s.txManager, tx)

	if err := s.categoryRepo.SaveCategoriesInTx(ctx, tx, cats); err != nil {
		s.LogError(ctx, err, "Failed to save default categories", slog.String("user_id", userID))
		return err
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit default categories", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "Default categories created", slog.String("user_id", userID), slog.Int("count", len(cats)))
	return nil
}

// expandCatalog flattens the catalog with parents ahead of their children.
// Children inherit the color of their root.
func (s *categoryService) expandCatalog(userID string, catalog *seed.CategoryCatalog) []domain.Category {
	now := s.Now()
	cats := make([]domain.Category, 0)
	add := func(catType domain.CategoryType, roots []seed.CategorySeed) {
		for i, root := range roots {
			rootID := uuid.NewString()
			cats = append(cats, domain.Category{
				CategoryID:  rootID,
				UserID:      userID,
				Name:        root.Name,
				Type:        catType,
				Icon:        root.Icon,
				Color:       root.Color,
				IsSystem:    true,
				IsActive:    true,
				SortOrder:   i,
				AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
			})
			for j, child := range root.Children {
				parentID := rootID
				cats = append(cats, domain.Category{
					CategoryID:  uuid.NewString(),
					UserID:      userID,
					Name:        child.Name,
					Type:        catType,
					ParentID:    &parentID,
					Icon:        child.Icon,
					Color:       root.Color,
					IsSystem:    true,
					IsActive:    true,
					SortOrder:   j,
					AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
				})
			}
		}
	}
	add(domain.CategoryTypeIncome, catalog.Income)
	add(domain.CategoryTypeExpense, catalog.Expense)
	return cats
}

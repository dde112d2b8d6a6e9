package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memStore
	service portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.service = services.NewCategoryService(suite.store, suite.store, services.WithClock(fixedClock))
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (suite *CategoryServiceTestSuite) TestInitDefaultCategories_SeedsOnce() {
	catalog, err := seed.DefaultCategories()
	suite.Require().NoError(err)
	want := 0
	for _, roots := range [][]seed.CategorySeed{catalog.Income, catalog.Expense} {
		for _, r := range roots {
			want += 1 + len(r.Children)
		}
	}

	suite.Require().NoError(suite.service.InitDefaultCategories(suite.ctx, "u1"))
	suite.Len(suite.store.categories, want)
	for _, c := range suite.store.categories {
		suite.True(c.IsSystem)
		if !c.IsRoot() {
			parent := suite.store.categories[*c.ParentID]
			suite.Equal(parent.Color, c.Color)
			suite.Equal(parent.Type, c.Type)
		}
	}

	suite.Require().NoError(suite.service.InitDefaultCategories(suite.ctx, "u1"))
	suite.Len(suite.store.categories, want)
	suite.Equal(1, suite.store.commits)
}

func (suite *CategoryServiceTestSuite) TestInitDefaultCategories_FailureLeavesNothing() {
	suite.store.failOn["SaveCategoriesInTx"] = assert.AnError
	suite.ErrorIs(suite.service.InitDefaultCategories(suite.ctx, "u1"), assert.AnError)
	suite.Empty(suite.store.categories)
}

func (suite *CategoryServiceTestSuite) TestListCategoryTree() {
	food, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Food", Type: domain.CategoryTypeExpense, SortOrder: 1})
	suite.Require().NoError(err)
	_, err = suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Housing", Type: domain.CategoryTypeExpense, SortOrder: 0})
	suite.Require().NoError(err)
	lunch, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Lunch", Type: domain.CategoryTypeExpense, ParentID: &food.CategoryID})
	suite.Require().NoError(err)
	_, err = suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Salary", Type: domain.CategoryTypeIncome})
	suite.Require().NoError(err)
	_, err = suite.service.UpdateCategory(suite.ctx, "u1", lunch.CategoryID, dto.UpdateCategoryRequest{IsActive: ptr(false)})
	suite.Require().NoError(err)

	expense := domain.CategoryTypeExpense
	tree, err := suite.service.ListCategoryTree(suite.ctx, "u1", &expense)
	suite.Require().NoError(err)
	suite.Require().Len(tree, 2)
	suite.Equal("Housing", tree[0].Name)
	suite.Equal("Food", tree[1].Name)
	suite.Empty(tree[1].Children)

	all, err := suite.service.ListCategoryTree(suite.ctx, "u1", nil)
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_ParentRules() {
	food, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Food", Type: domain.CategoryTypeExpense})
	suite.Require().NoError(err)
	lunch, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Lunch", Type: domain.CategoryTypeExpense, ParentID: &food.CategoryID})
	suite.Require().NoError(err)

	_, err = suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Deep", Type: domain.CategoryTypeExpense, ParentID: &lunch.CategoryID})
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Bonus", Type: domain.CategoryTypeIncome, ParentID: &food.CategoryID})
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.CreateCategory(suite.ctx, "u2", dto.CreateCategoryRequest{Name: "Sneaky", Type: domain.CategoryTypeExpense, ParentID: &food.CategoryID})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory() {
	suite.Require().NoError(suite.service.InitDefaultCategories(suite.ctx, "u1"))
	var system domain.Category
	for _, c := range suite.store.categories {
		system = c
		break
	}
	suite.ErrorIs(suite.service.DeleteCategory(suite.ctx, "u1", system.CategoryID), apperrors.ErrForbidden)

	parent, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Hobby", Type: domain.CategoryTypeExpense})
	suite.Require().NoError(err)
	child, err := suite.service.CreateCategory(suite.ctx, "u1", dto.CreateCategoryRequest{Name: "Climbing", Type: domain.CategoryTypeExpense, ParentID: &parent.CategoryID})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteCategory(suite.ctx, "u1", parent.CategoryID))
	_, err = suite.service.GetCategoryByID(suite.ctx, "u1", child.CategoryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(suite.service.DeleteCategory(suite.ctx, "u1", "missing"), apperrors.ErrNotFound)
}

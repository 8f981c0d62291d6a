package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRelationService is a mock implementation of service.IRelationService.
// RelationKind is returned by Kind without going through the mock.
type MockRelationService struct {
	mock.Mock
	RelationKind model.RelationKind
}

func (m *MockRelationService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeSummary), args.Error(1)
}

func (m *MockRelationService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRelationService) Kind() model.RelationKind {
	return m.RelationKind
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingLine), args.Error(1)
}

func (m *MockShoppingListService) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockShortLinkService is a mock implementation of service.IShortLinkService
type MockShortLinkService struct {
	mock.Mock
}

func (m *MockShortLinkService) Link(ctx context.Context, recipeID uuid.UUID) (string, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Error(1)
}

func (m *MockShortLinkService) Resolve(ctx context.Context, hash string) (*model.Recipe, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

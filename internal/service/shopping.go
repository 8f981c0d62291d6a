package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListFilename is suggested to clients downloading the list.
const ShoppingListFilename = "shopping_list.txt"

type ShoppingListService struct {
	store   *store.Store
	metrics *observability.Metrics
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(s *store.Store, metrics *observability.Metrics) *ShoppingListService {
	return &ShoppingListService{store: s, metrics: metrics}
}

// Aggregate sums every ingredient over the recipes currently in the user's
// cart, one line per (name, unit), ordered by name. The query runs in one
// read transaction so a cart changing mid-request is never half counted.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingLine, error) {
	var totals []store.IngredientTotal
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		var err error
		totals, err = tx.CartIngredientTotals(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	lines := make([]types.ShoppingLine, 0, len(totals))
	for _, t := range totals {
		lines = append(lines, types.ShoppingLine{Name: t.Name, Unit: t.Unit, Amount: t.Amount})
	}
	return lines, nil
}

// Export renders the aggregated list as text.
func (s *ShoppingListService) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	lines, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}
	s.metrics.RecordExport(len(lines))
	return RenderShoppingList(lines), nil
}

// RenderShoppingList writes "<name> - <amount> <unit>" per line.
func RenderShoppingList(lines []types.ShoppingLine) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s - %d %s\n", l.Name, l.Amount, l.Unit)
	}
	return b.String()
}

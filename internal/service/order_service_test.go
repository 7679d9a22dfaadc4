package service

import (
	"context"
	"errors"
	"testing"

	"artlink/internal/models"
	"artlink/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderStoreStub is a stub for repository.Store[models.Order].
type orderStoreStub struct {
	createFn func(context.Context, *models.Order) (string, error)
	listFn   func(context.Context, repository.Filter, int) ([]models.Order, error)
}

func (s *orderStoreStub) Create(ctx context.Context, o *models.Order) (string, error) {
	return s.createFn(ctx, o)
}
func (s *orderStoreStub) List(ctx context.Context, f repository.Filter, limit int) ([]models.Order, error) {
	return s.listFn(ctx, f, limit)
}

func noopOrderStore() *orderStoreStub {
	return &orderStoreStub{
		createFn: func(_ context.Context, _ *models.Order) (string, error) { return "order-1", nil },
		listFn:   func(_ context.Context, _ repository.Filter, _ int) ([]models.Order, error) { return nil, nil },
	}
}

func assertValidationError(t *testing.T, err error) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	return appErr
}

func fieldNames(fields []models.FieldError) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Field)
	}
	return out
}

func validInput(items ...map[string]any) models.OrderInput {
	return models.OrderInput{
		BuyerName:       "Ada",
		BuyerEmail:      "ada@example.com",
		ShippingAddress: "1 Canvas Way",
		Items:           items,
	}
}

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []map[string]any
		want  float64
	}{
		{"no items", nil, 0},
		{"price times quantity", []map[string]any{{"price": 10.0, "quantity": 2.0}, {"price": 5.5, "quantity": 1.0}}, 25.5},
		{"missing quantity defaults to one", []map[string]any{{"price": 12.0}}, 12},
		{"missing price counts as zero", []map[string]any{{"quantity": 3.0}}, 0},
		{"null values use defaults", []map[string]any{{"price": 4.0, "quantity": nil}}, 4},
		{"numeric strings are coerced", []map[string]any{{"price": "2.5", "quantity": "4"}}, 10},
		{"fractional quantity truncates", []map[string]any{{"price": 3.0, "quantity": 2.7}}, 6},
		{"leading zeros are decimal", []map[string]any{{"price": "10", "quantity": "010"}}, 100},
		{"surrounding spaces are trimmed", []map[string]any{{"price": " 2 ", "quantity": " 3 "}}, 6},
		{"booleans count as one", []map[string]any{{"price": true}}, 1},
		{"mixed lines", []map[string]any{
			{"price": "10", "quantity": "010"},
			{"price": 1.5, "quantity": 2.9},
			{"price": true},
		}, 104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, fields := ComputeTotal(tt.items)
			assert.Empty(t, fields)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeTotal_UncoercibleValues(t *testing.T) {
	t.Parallel()

	_, fields := ComputeTotal([]map[string]any{
		{"price": 1.0, "quantity": 1.0},
		{"price": "abc", "quantity": []any{1}},
		{"price": 1.0, "quantity": "0x10"},
		{"price": 1.0, "quantity": "2.0"},
	})
	assert.ElementsMatch(t,
		[]string{"items[1].price", "items[1].quantity", "items[2].quantity", "items[3].quantity"},
		fieldNames(fields))
}

func TestBuildOrderItems(t *testing.T) {
	t.Parallel()

	t.Run("coerces and defaults", func(t *testing.T) {
		t.Parallel()
		items, fields := BuildOrderItems([]map[string]any{
			{"supply_id": "s1", "title": "Brush", "price": "3.5"},
			{"supply_id": "s2", "title": "", "price": 8.0, "quantity": "010", "extra": true},
		})
		require.Empty(t, fields)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Quantity)
		require.NotNil(t, items[0].Price)
		assert.Equal(t, 3.5, *items[0].Price)
		assert.Equal(t, "", items[1].Title)
		assert.Equal(t, 10, items[1].Quantity)
	})

	t.Run("string fields are not coerced", func(t *testing.T) {
		t.Parallel()
		_, fields := BuildOrderItems([]map[string]any{
			{"supply_id": 7.0, "title": true, "price": 1.0},
		})
		assert.ElementsMatch(t, []string{"items[0].supply_id", "items[0].title"}, fieldNames(fields))
	})

	t.Run("reports item paths", func(t *testing.T) {
		t.Parallel()
		_, fields := BuildOrderItems([]map[string]any{
			{"supply_id": "s1", "title": "Brush", "price": 1.0},
			{"title": "Paint", "quantity": 0.0},
		})
		assert.ElementsMatch(t,
			[]string{"items[1].supply_id", "items[1].price", "items[1].quantity"},
			fieldNames(fields))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		items, fields := BuildOrderItems([]map[string]any{})
		assert.Empty(t, fields)
		assert.NotNil(t, items)
	})
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("computes total and forces pending", func(t *testing.T) {
		t.Parallel()
		var stored *models.Order
		store := noopOrderStore()
		store.createFn = func(_ context.Context, o *models.Order) (string, error) {
			stored = o
			return "order-9", nil
		}

		id, err := NewOrderService(store).CreateOrder(ctx, validInput(
			map[string]any{"supply_id": "s1", "title": "Brush", "price": 10.0, "quantity": 2.0},
			map[string]any{"supply_id": "s2", "title": "Ink", "price": 5.0},
		))
		require.NoError(t, err)
		assert.Equal(t, "order-9", id)
		require.NotNil(t, stored)
		assert.Equal(t, 25.0, stored.TotalAmount)
		assert.Equal(t, models.OrderPending, stored.Status)
		assert.Len(t, stored.Items, 2)
	})

	t.Run("empty items are accepted", func(t *testing.T) {
		t.Parallel()
		_, err := NewOrderService(noopOrderStore()).CreateOrder(ctx, validInput())
		require.NoError(t, err)
	})

	t.Run("uncoercible price is a validation error", func(t *testing.T) {
		t.Parallel()
		store := noopOrderStore()
		store.createFn = func(_ context.Context, _ *models.Order) (string, error) {
			t.Fatal("store must not be called")
			return "", nil
		}
		_, err := NewOrderService(store).CreateOrder(ctx, validInput(
			map[string]any{"supply_id": "s1", "title": "Brush", "price": "free"},
		))
		appErr := assertValidationError(t, err)
		assert.Equal(t, []string{"items[0].price"}, fieldNames(appErr.Fields))
	})

	t.Run("invalid item is a validation error", func(t *testing.T) {
		t.Parallel()
		_, err := NewOrderService(noopOrderStore()).CreateOrder(ctx, validInput(
			map[string]any{"title": "Brush", "price": 2.0},
		))
		appErr := assertValidationError(t, err)
		assert.Contains(t, fieldNames(appErr.Fields), "items[0].supply_id")
	})

	t.Run("storage error propagates", func(t *testing.T) {
		t.Parallel()
		store := noopOrderStore()
		store.createFn = func(_ context.Context, _ *models.Order) (string, error) {
			return "", repository.ErrStorageUnavailable
		}
		_, err := NewOrderService(store).CreateOrder(ctx, validInput())
		assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	})
}

// Package service holds the business rules that sit between handlers and collections.
package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"artlink/internal/models"
	"artlink/internal/observability"
	"artlink/internal/repository"
	"artlink/internal/validation"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
)

type OrderService struct {
	orders repository.Store[models.Order]
}

func NewOrderService(orders repository.Store[models.Order]) *OrderService {
	return &OrderService{orders: orders}
}

// ComputeTotal sums price × quantity over raw line items. A missing or null
// price counts as 0 and a missing or null quantity as 1. Values that cannot be
// coerced to numbers are reported per item.
func ComputeTotal(items []map[string]any) (float64, []models.FieldError) {
	var (
		total  float64
		fields []models.FieldError
	)
	for i, item := range items {
		price, qty, errs := coerceLine(i, item)
		if len(errs) > 0 {
			fields = append(fields, errs...)
			continue
		}
		total += price * float64(qty)
	}
	return total, fields
}

func coerceLine(i int, item map[string]any) (float64, int, []models.FieldError) {
	var errs []models.FieldError

	price := 0.0
	if raw, ok := item["price"]; ok && raw != nil {
		p, err := toFloat(raw)
		if err != nil {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "must be a number",
			})
		}
		price = p
	}

	qty := 1
	if raw, ok := item["quantity"]; ok && raw != nil {
		q, err := toInt(raw)
		if err != nil {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be an integer",
			})
		}
		qty = q
	}

	return price, qty, errs
}

// toFloat parses strings as decimal literals and leaves other kinds to cast.
func toFloat(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return cast.ToFloat64E(v)
}

// toInt parses strings as base-10 integers, so "010" is ten and "0x10" is
// rejected. Floats truncate toward zero.
func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(v)
}

// BuildOrderItems converts raw line items into validated OrderItems. Numeric
// fields are coerced the same way ComputeTotal coerces them.
func BuildOrderItems(items []map[string]any) (datatypes.JSONSlice[models.OrderItem], []models.FieldError) {
	out := make(datatypes.JSONSlice[models.OrderItem], 0, len(items))
	var fields []models.FieldError

	for i, raw := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		item := models.NewOrderItem()

		price, qty, errs := coerceLine(i, raw)
		if len(errs) > 0 {
			fields = append(fields, errs...)
			continue
		}

		norm := maps.Clone(raw)
		if v, ok := raw["price"]; ok && v != nil {
			norm["price"] = price
		}
		if v, ok := raw["quantity"]; ok && v != nil {
			norm["quantity"] = qty
		}
		keys := make(map[string]bool, len(norm))
		for k, v := range norm {
			if v == nil {
				delete(norm, k)
				continue
			}
			keys[k] = true
		}

		if errs := stringFields(prefix, norm); len(errs) > 0 {
			fields = append(fields, errs...)
			continue
		}

		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &item})
		if err != nil {
			fields = append(fields, models.FieldError{Field: prefix, Message: err.Error()})
			continue
		}
		if err := dec.Decode(norm); err != nil {
			fields = append(fields, models.FieldError{Field: prefix, Message: err.Error()})
			continue
		}

		if err := validation.StructKeys(&item, prefix, keys); err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				fields = append(fields, appErr.Fields...)
				continue
			}
			fields = append(fields, models.FieldError{Field: prefix, Message: err.Error()})
			continue
		}
		out = append(out, item)
	}

	return out, fields
}

// stringFields reports item keys bound to string fields that hold another type.
func stringFields(prefix string, item map[string]any) []models.FieldError {
	var errs []models.FieldError
	for _, key := range orderItemStringKeys {
		if v, ok := item[key]; ok {
			if _, isString := v.(string); !isString {
				errs = append(errs, models.FieldError{
					Field:   prefix + "." + key,
					Message: "must be of type string",
				})
			}
		}
	}
	return errs
}

var orderItemStringKeys = []string{"supply_id", "title"}

// CreateOrder computes the total from the raw items, validates the items into
// OrderItems and stores the order as pending. Client totals and statuses are
// never accepted.
func (s *OrderService) CreateOrder(ctx context.Context, in models.OrderInput) (string, error) {
	total, fields := ComputeTotal(in.Items)
	if len(fields) > 0 {
		return "", models.NewValidationError("Invalid order items", fields...)
	}

	items, fields := BuildOrderItems(in.Items)
	if len(fields) > 0 {
		return "", models.NewValidationError("Invalid order items", fields...)
	}

	order := &models.Order{
		BuyerName:       in.BuyerName,
		BuyerEmail:      in.BuyerEmail,
		ShippingAddress: in.ShippingAddress,
		Items:           items,
		TotalAmount:     total,
		Status:          models.OrderPending,
	}
	if err := validation.Struct(order, ""); err != nil {
		return "", err
	}

	observability.LogServiceCall(ctx, "OrderService", "CreateOrder", map[string]any{
		"items": len(items),
		"total": total,
	})
	return s.orders.Create(ctx, order)
}

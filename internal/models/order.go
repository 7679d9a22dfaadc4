package models

import "gorm.io/datatypes"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one supply line of an order.
type OrderItem struct {
	SupplyID string   `json:"supply_id" mapstructure:"supply_id" validate:"present"`
	Title    string   `json:"title" mapstructure:"title" validate:"present"`
	Price    *float64 `json:"price" mapstructure:"price" validate:"required"`
	Quantity int      `json:"quantity" mapstructure:"quantity" validate:"min=1"`
}

// NewOrderItem returns an OrderItem holding the declared defaults.
func NewOrderItem() OrderItem {
	return OrderItem{Quantity: 1}
}

// Order is a supplies purchase. TotalAmount is always computed server-side.
type Order struct {
	Base
	BuyerName       string                         `gorm:"not null" json:"buyer_name" validate:"present"`
	BuyerEmail      string                         `gorm:"not null" json:"buyer_email" validate:"present"`
	ShippingAddress string                         `gorm:"type:text;not null" json:"shipping_address" validate:"present"`
	Items           datatypes.JSONSlice[OrderItem] `json:"items" validate:"required,dive"`
	TotalAmount     float64                        `json:"total_amount" validate:"gte=0"`
	Status          OrderStatus                    `gorm:"size:16;not null" json:"status" validate:"oneof=pending paid shipped delivered cancelled"`
}

// OrderInput is the client-facing shape of an order. Items stay loosely typed
// until the total has been computed from them.
type OrderInput struct {
	BuyerName       string           `json:"buyer_name" validate:"present"`
	BuyerEmail      string           `json:"buyer_email" validate:"present"`
	ShippingAddress string           `json:"shipping_address" validate:"present"`
	Items           []map[string]any `json:"items" validate:"required"`
}

// Normalize keeps Items a list so it serialises as [] rather than null.
func (o *Order) Normalize() {
	if o.Items == nil {
		o.Items = datatypes.JSONSlice[OrderItem]{}
	}
}

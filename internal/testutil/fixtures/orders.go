package fixtures

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

// OrderBuilder provides fluent API for building test orders.
type OrderBuilder struct {
	order models.Order
}

// NewOrder creates a new order builder with sensible defaults.
func NewOrder(id string) *OrderBuilder {
	return &OrderBuilder{
		order: models.Order{
			ID:           id,
			Name:         fmt.Sprintf("#%s", id),
			CreatedAt:    time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
			CurrencyCode: "AUD",
		},
	}
}

func (b *OrderBuilder) WithCreatedAt(t time.Time) *OrderBuilder {
	b.order.CreatedAt = t
	return b
}

func (b *OrderBuilder) WithCurrency(code string) *OrderBuilder {
	b.order.CurrencyCode = code
	return b
}

// WithLineItem adds a line item with the given vendor, quantity and
// discounted total.
func (b *OrderBuilder) WithLineItem(vendor string, quantity int32, total string) *OrderBuilder {
	b.order.LineItems = append(b.order.LineItems, models.LineItem{
		ID:              fmt.Sprintf("li-%s-%d", b.order.ID, len(b.order.LineItems)+1),
		Vendor:          vendor,
		SKU:             fmt.Sprintf("SKU-%d", len(b.order.LineItems)+1),
		Quantity:        quantity,
		DiscountedTotal: decimal.RequireFromString(total),
	})
	return b
}

func (b *OrderBuilder) WithShipping(amount string) *OrderBuilder {
	b.order.ShippingLines = append(b.order.ShippingLines, models.ShippingCharge{
		Amount: decimal.RequireFromString(amount),
	})
	return b
}

// WithRefund adds a refund of subtotal against a line item of the given
// vendor.
func (b *OrderBuilder) WithRefund(vendor, subtotal string) *OrderBuilder {
	b.order.Refunds = append(b.order.Refunds, models.Refund{
		CreatedAt: b.order.CreatedAt.Add(24 * time.Hour),
		LineItems: []models.RefundLineItem{
			{
				Subtotal: decimal.RequireFromString(subtotal),
				Vendor:   vendor,
				SKU:      "SKU-1",
			},
		},
	})
	return b
}

// Build returns the constructed order.
func (b *OrderBuilder) Build() models.Order {
	return b.order
}

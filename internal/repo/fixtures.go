package repo

import (
	"fmt"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/shopspring/decimal"
)

// Fixtures returns the demo orders the memory store is seeded with.
func Fixtures() []entities.Order {
	orders := []entities.Order{
		{
			ID:              101,
			CustomerName:    "Alex",
			CustomerEmail:   "alex@example.com",
			ShippingAddress: "1 Main St",
			OrderDate:       time.Date(2024, 6, 12, 12, 30, 0, 0, time.UTC),
			Status:          entities.OrderStatusPending,
			TotalAmount:     decimal.RequireFromString("120.5"),
		},
		{
			ID:              102,
			CustomerName:    "Liz",
			CustomerEmail:   "liz@example.com",
			ShippingAddress: "7 Elm Rd",
			OrderDate:       time.Date(2024, 6, 13, 8, 15, 0, 0, time.UTC),
			Status:          entities.OrderStatusShipped,
			TotalAmount:     decimal.NewFromInt(40),
		},
		{
			ID:              103,
			CustomerName:    "Steve",
			CustomerEmail:   "s@t.com",
			ShippingAddress: "Z Plaza",
			OrderDate:       time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
			Status:          entities.OrderStatusShipped,
			TotalAmount:     decimal.RequireFromString("123.5"),
			Items: []entities.OrderItem{
				{ID: 1, ProductID: 5, ProductName: "X Phone", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(50)},
				{ID: 2, ProductID: 7, ProductName: "Blender", Quantity: 1, PriceAtPurchase: decimal.RequireFromString("23.5")},
			},
		},
	}

	for i := 1; i <= 13; i++ {
		orders = append(orders, entities.Order{
			ID:              int64(i),
			CustomerName:    fmt.Sprintf("Cust%d", i),
			CustomerEmail:   fmt.Sprintf("cust%d@example.com", i),
			ShippingAddress: fmt.Sprintf("%d Fixture Ave", i),
			OrderDate:       time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
			Status:          entities.OrderStatusPending,
			TotalAmount:     decimal.NewFromInt(42),
		})
	}

	return orders
}

package repo

import (
	"database/sql"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `db:"id"`
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   sql.NullString  `db:"customer_email"`
	ShippingAddress sql.NullString  `db:"shipping_address"`
	OrderDate       time.Time       `db:"order_date"`
	Status          string          `db:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
}

type Item struct {
	ID              int64           `db:"id"`
	OrderID         int64           `db:"order_id"`
	ProductID       sql.NullInt64   `db:"product_id"`
	ProductName     string          `db:"product_name"`
	Quantity        int             `db:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase"`
}

type Product struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	Category      string          `db:"category"`
	StockQuantity int             `db:"stock_quantity"`
	ImageURL      sql.NullString  `db:"image_url"`
}

var (
	orderColumns   = []string{"id", "customer_name", "customer_email", "shipping_address", "order_date", "status", "total_amount"}
	itemColumns    = []string{"id", "order_id", "product_id", "product_name", "quantity", "price_at_purchase"}
	productColumns = []string{"id", "name", "description", "price", "category", "stock_quantity", "image_url"}
)

func ItemToEntity(i Item) entities.OrderItem {
	return entities.OrderItem{
		ID:              i.ID,
		ProductID:       nullInt64ToInt64(i.ProductID),
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		PriceAtPurchase: i.PriceAtPurchase,
	}
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   nullStringToString(o.CustomerEmail),
		ShippingAddress: nullStringToString(o.ShippingAddress),
		OrderDate:       o.OrderDate,
		Status:          entities.OrderStatus(o.Status),
		TotalAmount:     o.TotalAmount,
		Items:           make([]entities.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		order.Items = append(order.Items, ItemToEntity(it))
	}
	return order
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageURL:      nullStringToString(p.ImageURL),
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt64ToInt64(ni sql.NullInt64) int64 {
	if ni.Valid {
		return ni.Int64
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}

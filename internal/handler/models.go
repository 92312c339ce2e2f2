package handler

import (
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order представляет заказ
type Order struct {
	ID              int64           `json:"id" validate:"required,gt=0"`
	CustomerName    string          `json:"customerName" validate:"required,max=255"`
	CustomerEmail   string          `json:"customerEmail" validate:"required,email"`
	ShippingAddress string          `json:"shippingAddress" validate:"required"`
	OrderDate       time.Time       `json:"orderDate" validate:"required"`
	Status          string          `json:"status" validate:"required,oneof=PENDING SHIPPED DELIVERED"`
	TotalAmount     decimal.Decimal `json:"totalAmount" swaggertype:"string" example:"123.50"`
	Items           []OrderItem     `json:"items" validate:"required,min=1,dive"`
}

// OrderItem позиция заказа, цена зафиксирована на момент покупки
type OrderItem struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId" validate:"gte=0"`
	ProductName     string          `json:"productName" validate:"required"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" validate:"gte=0" swaggertype:"string" example:"50.00"`
}

// Product товар каталога
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" swaggertype:"string" example:"23.50"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
}

// StatusUpdate тело запроса на смену статуса
type StatusUpdate struct {
	Status string `json:"status" validate:"required" example:"SHIPPED"`
}

func OrderItemEntityToJSON(i entities.OrderItem) OrderItem {
	return OrderItem{
		ID:              i.ID,
		ProductID:       i.ProductID,
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		PriceAtPurchase: i.PriceAtPurchase,
	}
}

func OrderItemJSONToEntity(i OrderItem) entities.OrderItem {
	return entities.OrderItem{
		ID:              i.ID,
		ProductID:       i.ProductID,
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		PriceAtPurchase: i.PriceAtPurchase,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	return Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		Items: lo.Map(o.Items, func(i entities.OrderItem, _ int) OrderItem {
			return OrderItemEntityToJSON(i)
		}),
	}
}

func OrderJSONToEntity(o Order) entities.Order {
	return entities.Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Status:          entities.OrderStatus(o.Status),
		TotalAmount:     o.TotalAmount,
		Items: lo.Map(o.Items, func(i OrderItem, _ int) entities.OrderItem {
			return OrderItemJSONToEntity(i)
		}),
	}
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
	}
}

func ProductJSONToEntity(p Product) entities.Product {
	return entities.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
	}
}

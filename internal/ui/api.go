package ui

import (
	"context"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
)

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]entities.Order, error)
	GetOrder(ctx context.Context, id int64) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error)
}

type ProductAPI interface {
	CreateProduct(ctx context.Context, draft entities.ProductDraft) (entities.Product, error)
}

// DataAccess is everything the screens need from the backend.
type DataAccess interface {
	OrderAPI
	ProductAPI
}

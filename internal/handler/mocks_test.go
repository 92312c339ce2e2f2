package handler_test

import (
	"context"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/stretchr/testify/mock"
)

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) ListOrders(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(entities.Order), args.Error(1)
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) CreateProduct(ctx context.Context, draft entities.ProductDraft) (entities.Product, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id int64, draft entities.ProductDraft) (entities.Product, error) {
	args := m.Called(ctx, id, draft)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductService) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]entities.Product)
	return products, args.Error(1)
}

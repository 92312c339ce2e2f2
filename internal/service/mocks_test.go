package service_test

import (
	"context"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/stretchr/testify/mock"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) ListOrders(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) SaveOrder(ctx context.Context, o entities.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) SaveItems(ctx context.Context, orderID int64, items []entities.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) GetProductByID(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]entities.Product)
	return products, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(key int64) ([]byte, bool) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1)
}

func (m *mockCache) Set(key int64, value []byte) {
	m.Called(key, value)
}

func (m *mockCache) Delete(key int64) {
	m.Called(key)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) OrderStatusChanged(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockEvents) ProductCreated(ctx context.Context, product entities.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockEvents) ProductUpdated(ctx context.Context, product entities.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockEvents) ProductDeleted(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// inlineTx runs the callback without a real transaction.
type inlineTx struct{ calls int }

func (t *inlineTx) Do(ctx context.Context, cb func(ctx context.Context) error) error {
	t.calls++
	return cb(ctx)
}

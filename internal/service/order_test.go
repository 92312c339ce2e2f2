package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*mockOrderRepo, *mockCache, *mockEvents, *inlineTx, func() orderService) {
	t.Helper()

	orderRepo := &mockOrderRepo{}
	cache := &mockCache{}
	events := &mockEvents{}
	tx := &inlineTx{}
	t.Cleanup(func() {
		orderRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	build := func() orderService {
		return service.NewOrderService(logger, tx, orderRepo, cache, events)
	}
	return orderRepo, cache, events, tx, build
}

type orderService interface {
	ListOrders(ctx context.Context) ([]entities.Order, error)
	GetOrder(ctx context.Context, id int64) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error)
	SaveOrder(ctx context.Context, order entities.Order) error
	WarmUpCache(ctx context.Context, count int) error
}

func TestOrderService_GetOrder(t *testing.T) {
	type MockBehavior func(orderRepo *mockOrderRepo, cache *mockCache)

	validOrder := entities.Order{ID: 103, CustomerName: "Steve", Status: entities.OrderStatusShipped}
	validData, err := validOrder.Marshal()
	require.NoError(t, err)

	testCases := []struct {
		name         string
		id           int64
		mockBehavior MockBehavior
		wantErr      error
		want         entities.Order
	}{
		{
			name: "success from cache",
			id:   103,
			mockBehavior: func(_ *mockOrderRepo, cache *mockCache) {
				cache.On("Get", int64(103)).Return(validData, true).Once()
			},
			want: validOrder,
		},
		{
			name: "cache hit but unmarshal fails",
			id:   103,
			mockBehavior: func(_ *mockOrderRepo, cache *mockCache) {
				cache.On("Get", int64(103)).Return([]byte("broken"), true).Once()
			},
			wantErr: entities.ErrInvalidOrder,
		},
		{
			name: "success from repo and set to cache",
			id:   103,
			mockBehavior: func(orderRepo *mockOrderRepo, cache *mockCache) {
				cache.On("Get", int64(103)).Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, int64(103)).Return(validOrder, nil).Once()
				cache.On("Set", int64(103), validData).Return().Once()
			},
			want: validOrder,
		},
		{
			name: "not found is not retried",
			id:   999,
			mockBehavior: func(orderRepo *mockOrderRepo, cache *mockCache) {
				cache.On("Get", int64(999)).Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, int64(999)).Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name: "repo failure is returned once",
			id:   103,
			mockBehavior: func(orderRepo *mockOrderRepo, cache *mockCache) {
				cache.On("Get", int64(103)).Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, int64(103)).Return(entities.Order{}, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo, cache, _, _, build := newOrderService(t)
			tc.mockBehavior(orderRepo, cache)

			got, err := build().GetOrder(context.Background(), tc.id)
			if tc.wantErr != nil {
				if errors.Is(tc.wantErr, entities.ErrInvalidOrder) || errors.Is(tc.wantErr, entities.ErrOrderNotFound) {
					assert.ErrorIs(t, err, tc.wantErr)
				} else {
					assert.EqualError(t, err, tc.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	updated := entities.Order{ID: 103, Status: entities.OrderStatusDelivered}

	t.Run("success invalidates cache without refilling it", func(t *testing.T) {
		orderRepo, cache, events, _, build := newOrderService(t)

		orderRepo.On("UpdateOrderStatus", mock.Anything, int64(103), entities.OrderStatusDelivered).Return(updated, nil).Once()
		cache.On("Delete", int64(103)).Return().Once()
		events.On("OrderStatusChanged", mock.Anything, updated).Return(nil).Once()

		got, err := build().UpdateOrderStatus(context.Background(), 103, entities.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("publish failure does not fail the update", func(t *testing.T) {
		orderRepo, cache, events, _, build := newOrderService(t)

		orderRepo.On("UpdateOrderStatus", mock.Anything, int64(103), entities.OrderStatusDelivered).Return(updated, nil).Once()
		cache.On("Delete", int64(103)).Return().Once()
		events.On("OrderStatusChanged", mock.Anything, updated).Return(errors.New("kafka down")).Once()

		_, err := build().UpdateOrderStatus(context.Background(), 103, entities.OrderStatusDelivered)
		require.NoError(t, err)
	})

	t.Run("unknown order", func(t *testing.T) {
		orderRepo, cache, _, _, build := newOrderService(t)

		orderRepo.On("UpdateOrderStatus", mock.Anything, int64(999), entities.OrderStatusShipped).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()
		cache.On("Delete", int64(999)).Return().Once()

		_, err := build().UpdateOrderStatus(context.Background(), 999, entities.OrderStatusShipped)
		assert.ErrorIs(t, err, entities.ErrUpdateFailed)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("invalid status never reaches the repo", func(t *testing.T) {
		_, _, _, _, build := newOrderService(t)

		_, err := build().UpdateOrderStatus(context.Background(), 103, "CANCELLED")
		assert.ErrorIs(t, err, entities.ErrUpdateFailed)
		assert.ErrorIs(t, err, entities.ErrInvalidStatus)
	})
}

func TestOrderService_GetOrder_RacingUpdate(t *testing.T) {
	stale := entities.Order{ID: 103, Status: entities.OrderStatusShipped}
	updated := entities.Order{ID: 103, Status: entities.OrderStatusDelivered}
	updatedData, err := updated.Marshal()
	require.NoError(t, err)

	orderRepo, cache, events, _, build := newOrderService(t)
	svc := build()

	cache.On("Get", int64(103)).Return(nil, false).Once()
	// статус меняется, пока чтение еще в пути
	orderRepo.On("GetOrderByID", mock.Anything, int64(103)).Return(stale, nil).Once().Run(func(mock.Arguments) {
		_, err := svc.UpdateOrderStatus(context.Background(), 103, entities.OrderStatusDelivered)
		require.NoError(t, err)
	})
	orderRepo.On("UpdateOrderStatus", mock.Anything, int64(103), entities.OrderStatusDelivered).Return(updated, nil).Once()
	cache.On("Delete", int64(103)).Return().Once()
	events.On("OrderStatusChanged", mock.Anything, updated).Return(nil).Once()

	got, err := svc.GetOrder(context.Background(), 103)
	require.NoError(t, err)
	assert.Equal(t, stale, got)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)

	// следующее чтение видит новый статус и кэширует его
	cache.On("Get", int64(103)).Return(nil, false).Once()
	orderRepo.On("GetOrderByID", mock.Anything, int64(103)).Return(updated, nil).Once()
	cache.On("Set", int64(103), updatedData).Return().Once()

	got, err = svc.GetOrder(context.Background(), 103)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestOrderService_SaveOrder(t *testing.T) {
	type MockBehavior func(orderRepo *mockOrderRepo)

	dbError := errors.New("db error")
	items := []entities.OrderItem{
		{ProductName: "X Phone", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(50)},
		{ProductName: "Blender", Quantity: 1, PriceAtPurchase: decimal.RequireFromString("23.5")},
	}
	base := entities.Order{ID: 7, CustomerName: "Steve", Status: entities.OrderStatusPending, Items: items}

	testCases := []struct {
		name         string
		order        entities.Order
		mockBehavior MockBehavior
		wantErr      error
	}{
		{
			name:  "OK, total computed from item snapshots",
			order: base,
			mockBehavior: func(orderRepo *mockOrderRepo) {
				orderRepo.On("SaveOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
					return o.TotalAmount.Equal(decimal.RequireFromString("123.5"))
				})).Return(true, nil).Once()
				orderRepo.On("SaveItems", mock.Anything, int64(7), items).Return(nil).Once()
			},
		},
		{
			name: "OK, given total is kept",
			order: func() entities.Order {
				o := base
				o.TotalAmount = decimal.NewFromInt(100)
				return o
			}(),
			mockBehavior: func(orderRepo *mockOrderRepo) {
				orderRepo.On("SaveOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
					return o.TotalAmount.Equal(decimal.NewFromInt(100))
				})).Return(true, nil).Once()
				orderRepo.On("SaveItems", mock.Anything, int64(7), items).Return(nil).Once()
			},
		},
		{
			name:  "duplicate skips items",
			order: base,
			mockBehavior: func(orderRepo *mockOrderRepo) {
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
		},
		{
			name:  "SaveOrder fails",
			order: base,
			mockBehavior: func(orderRepo *mockOrderRepo) {
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).Return(false, dbError).Once()
			},
			wantErr: dbError,
		},
		{
			name:  "SaveItems fails",
			order: base,
			mockBehavior: func(orderRepo *mockOrderRepo) {
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).Return(true, nil).Once()
				orderRepo.On("SaveItems", mock.Anything, int64(7), items).Return(dbError).Once()
			},
			wantErr: dbError,
		},
		{
			name:         "missing id",
			order:        entities.Order{Status: entities.OrderStatusPending},
			mockBehavior: func(*mockOrderRepo) {},
			wantErr:      entities.ErrInvalidOrder,
		},
		{
			name:         "unknown status",
			order:        entities.Order{ID: 1, Status: "LOST"},
			mockBehavior: func(*mockOrderRepo) {},
			wantErr:      entities.ErrInvalidStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo, _, _, tx, build := newOrderService(t)
			tc.mockBehavior(orderRepo)

			err := build().SaveOrder(context.Background(), tc.order)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, tx.calls)
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	orderRepo, _, _, _, build := newOrderService(t)
	orders := []entities.Order{{ID: 101}, {ID: 102}}
	orderRepo.On("ListOrders", mock.Anything).Return(orders, nil).Once()

	got, err := build().ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orders, got)
}

func TestOrderService_WarmUpCache(t *testing.T) {
	orderRepo, cache, _, _, build := newOrderService(t)

	orders := []entities.Order{{ID: 1}, {ID: 2}, {ID: 3}}
	orderRepo.On("ListOrders", mock.Anything).Return(orders, nil).Once()
	cache.On("Set", int64(2), mock.Anything).Once()
	cache.On("Set", int64(3), mock.Anything).Once()

	require.NoError(t, build().WarmUpCache(context.Background(), 2))
}

func TestOrderService_WarmUpCache_Error(t *testing.T) {
	orderRepo, _, _, _, build := newOrderService(t)
	orderRepo.On("ListOrders", mock.Anything).Return(nil, errors.New("db down")).Once()

	assert.ErrorContains(t, build().WarmUpCache(context.Background(), 10), "db down")
}

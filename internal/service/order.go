package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/pkg/trm"
)

type OrderRepo interface {
	ListOrders(ctx context.Context) ([]entities.Order, error)
	GetOrderByID(ctx context.Context, id int64) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error)

	// SaveOrder идемпотентна: повторная вставка того же id возвращает false
	SaveOrder(ctx context.Context, o entities.Order) (bool, error)
	SaveItems(ctx context.Context, orderID int64, items []entities.OrderItem) error
}

type Cache interface {
	Get(key int64) ([]byte, bool)
	Set(key int64, value []byte)
	Delete(key int64)
}

type OrderEvents interface {
	OrderStatusChanged(ctx context.Context, order entities.Order) error
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	events    OrderEvents

	// writes растет при каждом изменении заказа; чтение, начатое до записи, не кэшируется
	cacheMu sync.Mutex
	writes  uint64
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache, events OrderEvents) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		events:    events,
	}
}

func (s *orderService) ListOrders(ctx context.Context) ([]entities.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (entities.Order, error) {
	if data, ok := s.cache.Get(id); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal order", slog.Int64("order_id", id), slog.Any("error", err))
			return entities.Order{}, err
		}
		return order, nil
	}

	seen := s.writeSeq()
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}

	s.remember(seen, order)
	return order, nil
}

// UpdateOrderStatus allows any transition between known statuses.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error) {
	if _, err := entities.ParseOrderStatus(string(status)); err != nil {
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, err)
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, status)
	s.invalidate(id)
	if err != nil {
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, err)
	}

	s.logger.Debug("order status updated", slog.Int64("order_id", id), slog.String("status", string(status)))

	if err := s.events.OrderStatusChanged(ctx, order); err != nil {
		s.logger.Error("failed to publish status change", slog.Int64("order_id", id), slog.Any("error", err))
	}
	return order, nil
}

// SaveOrder stores an externally created order with its items in one transaction.
// Item prices are stored as received.
func (s *orderService) SaveOrder(ctx context.Context, order entities.Order) error {
	if order.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", entities.ErrInvalidOrder)
	}
	if _, err := entities.ParseOrderStatus(string(order.Status)); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrInvalidOrder, err)
	}
	if order.TotalAmount.IsZero() {
		order.TotalAmount = order.ItemsTotal()
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		created, err := s.repo.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if !created {
			s.logger.Debug("order already exists", slog.Int64("order_id", order.ID))
			return nil
		}
		if err := s.repo.SaveItems(ctx, order.ID, order.Items); err != nil {
			return fmt.Errorf("failed to save items: %w", err)
		}

		s.logger.Debug("order saved", slog.Int64("order_id", order.ID))
		return nil
	})
}

// WarmUpCache загружает в кэш последние count заказов.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	seen := s.writeSeq()
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm up cache: %w", err)
	}
	if len(orders) > count {
		orders = orders[len(orders)-count:]
	}
	for _, o := range orders {
		s.remember(seen, o)
	}

	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

func (s *orderService) writeSeq() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.writes
}

// invalidate drops the entry after a write. The entry is not refilled here,
// the next read does it.
func (s *orderService) invalidate(id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.writes++
	s.cache.Delete(id)
}

// remember caches an order read when the write counter was seen,
// unless a write happened since.
func (s *orderService) remember(seen uint64, order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.Int64("order_id", order.ID), slog.Any("error", err))
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.writes != seen {
		s.logger.Debug("order changed while reading, not cached", slog.Int64("order_id", order.ID))
		return
	}
	s.cache.Set(order.ID, data)
}

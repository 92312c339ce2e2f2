package repo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/samber/lo"
)

// memoryRepo keeps orders in insertion order. Values are copied on the way in and out.
type memoryRepo struct {
	mu sync.RWMutex

	orders     []entities.Order
	orderIndex map[int64]int
	nextItemID int64

	products      []entities.Product
	nextProductID int64
}

func NewMemoryRepo(orders ...entities.Order) *memoryRepo {
	r := &memoryRepo{
		orderIndex:    make(map[int64]int),
		nextItemID:    1,
		nextProductID: 1,
	}
	for _, o := range orders {
		r.insertOrder(o)
	}
	return r
}

func (r *memoryRepo) ListOrders(_ context.Context) ([]entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.orders, func(o entities.Order, _ int) entities.Order {
		return cloneOrder(o)
	}), nil
}

func (r *memoryRepo) GetOrderByID(_ context.Context, id int64) (entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.orderIndex[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return cloneOrder(r.orders[idx]), nil
}

func (r *memoryRepo) UpdateOrderStatus(_ context.Context, id int64, status entities.OrderStatus) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.orderIndex[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	r.orders[idx].Status = status
	return cloneOrder(r.orders[idx]), nil
}

func (r *memoryRepo) SaveOrder(_ context.Context, o entities.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orderIndex[o.ID]; ok {
		return false, nil
	}
	o.Items = nil
	r.insertOrder(o)
	return true, nil
}

func (r *memoryRepo) SaveItems(_ context.Context, orderID int64, items []entities.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.orderIndex[orderID]
	if !ok {
		return entities.ErrOrderNotFound
	}
	for _, it := range items {
		r.orders[idx].Items = append(r.orders[idx].Items, r.assignItemID(it))
	}
	return nil
}

func (r *memoryRepo) CreateProduct(_ context.Context, p entities.Product) (entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextProductID
	r.nextProductID++
	r.products = append(r.products, p)
	return p, nil
}

func (r *memoryRepo) GetProductByID(_ context.Context, id int64) (entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := lo.Find(r.products, func(p entities.Product) bool { return p.ID == id })
	if !ok {
		return entities.Product{}, entities.ErrProductNotFound
	}
	return p, nil
}

func (r *memoryRepo) UpdateProduct(_ context.Context, p entities.Product) (entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(r.products, func(stored entities.Product) bool { return stored.ID == p.ID })
	if !ok {
		return entities.Product{}, entities.ErrProductNotFound
	}
	r.products[idx] = p
	return p, nil
}

func (r *memoryRepo) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(r.products, func(p entities.Product) bool { return p.ID == id })
	if !ok {
		return entities.ErrProductNotFound
	}
	r.products = slices.Delete(r.products, idx, idx+1)
	return nil
}

func (r *memoryRepo) ListProducts(_ context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Filter(r.products, func(p entities.Product, _ int) bool {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			return false
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			return false
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			return false
		}
		return true
	}), nil
}

// insertOrder expects the write lock to be held or the repo to be under construction.
func (r *memoryRepo) insertOrder(o entities.Order) {
	items := o.Items
	o.Items = make([]entities.OrderItem, 0, len(items))
	for _, it := range items {
		o.Items = append(o.Items, r.assignItemID(it))
	}
	r.orderIndex[o.ID] = len(r.orders)
	r.orders = append(r.orders, o)
}

func (r *memoryRepo) assignItemID(it entities.OrderItem) entities.OrderItem {
	if it.ID == 0 {
		it.ID = r.nextItemID
	}
	if it.ID >= r.nextItemID {
		r.nextItemID = it.ID + 1
	}
	return it
}

func cloneOrder(o entities.Order) entities.Order {
	items := make([]entities.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

package repo_test

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type store interface {
	ListOrders(ctx context.Context) ([]entities.Order, error)
	GetOrderByID(ctx context.Context, id int64) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error)
	SaveOrder(ctx context.Context, o entities.Order) (bool, error)
	SaveItems(ctx context.Context, orderID int64, items []entities.OrderItem) error

	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	GetProductByID(ctx context.Context, id int64) (entities.Product, error)
	UpdateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error)
}

// storeSuite checks behaviour both stores must share.
type storeSuite struct {
	suite.Suite

	newStore func() store
	repo     store
}

func (s *storeSuite) SetupTest() {
	s.repo = s.newStore()
}

func (s *storeSuite) save(o entities.Order) {
	ctx := context.Background()
	created, err := s.repo.SaveOrder(ctx, o)
	s.Require().NoError(err)
	s.Require().True(created)
	s.Require().NoError(s.repo.SaveItems(ctx, o.ID, o.Items))
}

func (s *storeSuite) TestListOrders_InsertionOrder() {
	ids := []int64{9001, 9000, 9002}
	for _, id := range ids {
		s.save(randomOrder(id))
	}

	orders, err := s.repo.ListOrders(context.Background())
	s.Require().NoError(err)

	got := lo.Filter(lo.Map(orders, func(o entities.Order, _ int) int64 { return o.ID }), func(id int64, _ int) bool {
		return lo.Contains(ids, id)
	})
	s.Equal(ids, got)
}

func (s *storeSuite) TestGetOrderByID() {
	order := randomOrder(9100)
	s.save(order)

	got, err := s.repo.GetOrderByID(context.Background(), order.ID)
	s.Require().NoError(err)

	s.Equal(order.CustomerName, got.CustomerName)
	s.Equal(order.CustomerEmail, got.CustomerEmail)
	s.Equal(order.ShippingAddress, got.ShippingAddress)
	s.Equal(order.Status, got.Status)
	s.True(order.OrderDate.Equal(got.OrderDate))
	s.True(order.TotalAmount.Equal(got.TotalAmount), "total %s != %s", order.TotalAmount, got.TotalAmount)
	s.Require().Len(got.Items, len(order.Items))
	for i := range order.Items {
		s.Equal(order.Items[i].ProductName, got.Items[i].ProductName)
		s.Equal(order.Items[i].Quantity, got.Items[i].Quantity)
		s.True(order.Items[i].PriceAtPurchase.Equal(got.Items[i].PriceAtPurchase))
		s.NotZero(got.Items[i].ID)
	}

	_, err = s.repo.GetOrderByID(context.Background(), 999999)
	s.ErrorIs(err, entities.ErrOrderNotFound)
}

func (s *storeSuite) TestSaveOrder_Idempotent() {
	order := randomOrder(9200)
	s.save(order)

	created, err := s.repo.SaveOrder(context.Background(), order)
	s.Require().NoError(err)
	s.False(created)
}

func (s *storeSuite) TestUpdateOrderStatus_AnyTransition() {
	order := randomOrder(9300)
	order.Status = entities.OrderStatusDelivered
	s.save(order)

	for _, status := range []entities.OrderStatus{
		entities.OrderStatusPending,
		entities.OrderStatusDelivered,
		entities.OrderStatusShipped,
	} {
		got, err := s.repo.UpdateOrderStatus(context.Background(), order.ID, status)
		s.Require().NoError(err)
		s.Equal(status, got.Status)
		s.Len(got.Items, len(order.Items))
	}

	_, err := s.repo.UpdateOrderStatus(context.Background(), 999999, entities.OrderStatusShipped)
	s.ErrorIs(err, entities.ErrOrderNotFound)
}

func (s *storeSuite) TestProducts() {
	ctx := context.Background()

	phone, err := s.repo.CreateProduct(ctx, product("X Phone", "Electronics", "50"))
	s.Require().NoError(err)
	blender, err := s.repo.CreateProduct(ctx, product("Blender", "Kitchen", "23.5"))
	s.Require().NoError(err)

	s.NotZero(phone.ID)
	s.NotEqual(phone.ID, blender.ID)

	got, err := s.repo.GetProductByID(ctx, blender.ID)
	s.Require().NoError(err)
	s.Equal("Blender", got.Name)
	s.True(got.Price.Equal(decimal.RequireFromString("23.5")))

	_, err = s.repo.GetProductByID(ctx, 999999)
	s.ErrorIs(err, entities.ErrProductNotFound)

	testCases := []struct {
		name   string
		filter entities.ProductFilter
		want   []string
	}{
		{name: "no filter", want: []string{"X Phone", "Blender"}},
		{name: "category is case insensitive", filter: entities.ProductFilter{Category: "kitchen"}, want: []string{"Blender"}},
		{name: "min price", filter: entities.ProductFilter{MinPrice: lo.ToPtr(decimal.NewFromInt(30))}, want: []string{"X Phone"}},
		{name: "max price", filter: entities.ProductFilter{MaxPrice: lo.ToPtr(decimal.RequireFromString("23.5"))}, want: []string{"Blender"}},
		{name: "nothing matches", filter: entities.ProductFilter{Category: "Garden"}, want: []string{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			products, err := s.repo.ListProducts(ctx, tc.filter)
			s.Require().NoError(err)
			s.Equal(tc.want, lo.Map(products, func(p entities.Product, _ int) string { return p.Name }))
		})
	}
}

func (s *storeSuite) TestCreateProduct_ReturnsStoredRow() {
	created, err := s.repo.CreateProduct(context.Background(), product("Kettle", "Kitchen", "19.90"))
	s.Require().NoError(err)

	got, err := s.repo.GetProductByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal(got.Name, created.Name)
	s.Equal(got.Description, created.Description)
	s.Equal(got.StockQuantity, created.StockQuantity)
	s.Equal(got.ImageURL, created.ImageURL)
	s.True(got.Price.Equal(created.Price), "price %s != %s", got.Price, created.Price)
}

func (s *storeSuite) TestUpdateDeleteProduct() {
	ctx := context.Background()

	created, err := s.repo.CreateProduct(ctx, product("Toaster", "Kitchen", "30"))
	s.Require().NoError(err)

	changed := product("Toaster Pro", "Appliances", "45.99")
	changed.ID = created.ID
	updated, err := s.repo.UpdateProduct(ctx, changed)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal("Toaster Pro", updated.Name)
	s.Equal("Appliances", updated.Category)

	got, err := s.repo.GetProductByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Toaster Pro", got.Name)
	s.True(got.Price.Equal(decimal.RequireFromString("45.99")))

	missing := product("Ghost", "None", "1")
	missing.ID = 999999
	_, err = s.repo.UpdateProduct(ctx, missing)
	s.ErrorIs(err, entities.ErrProductNotFound)

	s.Require().NoError(s.repo.DeleteProduct(ctx, created.ID))
	_, err = s.repo.GetProductByID(ctx, created.ID)
	s.ErrorIs(err, entities.ErrProductNotFound)
	s.ErrorIs(s.repo.DeleteProduct(ctx, created.ID), entities.ErrProductNotFound)
}

func randomOrder(id int64) entities.Order {
	items := make([]entities.OrderItem, 0)
	for i := 0; i < gofakeit.Number(1, 3); i++ {
		items = append(items, entities.OrderItem{
			ProductID:       int64(gofakeit.Number(1, 1000)),
			ProductName:     gofakeit.ProductName(),
			Quantity:        gofakeit.Number(1, 5),
			PriceAtPurchase: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		})
	}

	order := entities.Order{
		ID:              id,
		CustomerName:    gofakeit.Name(),
		CustomerEmail:   gofakeit.Email(),
		ShippingAddress: fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
		OrderDate:       time.Now().UTC().Truncate(time.Second),
		Status:          entities.OrderStatusPending,
		Items:           items,
	}
	order.TotalAmount = order.ItemsTotal()
	return order
}

func product(name, category, price string) entities.Product {
	return entities.Product{
		Name:          name,
		Description:   gofakeit.ProductDescription(),
		Price:         decimal.RequireFromString(price),
		Category:      category,
		StockQuantity: gofakeit.Number(0, 100),
		ImageURL:      gofakeit.URL(),
	}
}


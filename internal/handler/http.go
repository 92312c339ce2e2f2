package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	ListOrders(ctx context.Context) ([]entities.Order, error)
	GetOrder(ctx context.Context, id int64) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, draft entities.ProductDraft) (entities.Product, error)
	GetProduct(ctx context.Context, id int64) (entities.Product, error)
	UpdateProduct(ctx context.Context, id int64, draft entities.ProductDraft) (entities.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderService
	products ProductService
}

func NewHTTPHandler(logger *slog.Logger, orders OrderService, products ProductService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: utils.NewValidator(),
		orders:   orders,
		products: products,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Patch("/orders/{id}/status", h.UpdateOrderStatus)

		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Get("/products/{id}", h.GetProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})
}

// ListOrders возвращает все заказы в порядке поступления.
// @Summary      Список заказов
// @Tags         orders
// @Produce      json
// @Success      200  {array}   Order
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		h.internalError(ctx, w, "failed to list orders", err)
		return
	}

	utils.WriteJSON(w, lo.Map(orders, func(o entities.Order, _ int) Order {
		return OrderEntityToJSON(o)
	}), http.StatusOK)
}

// GetOrder возвращает заказ по ID.
// @Summary      Получить заказ по ID
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Некорректный идентификатор"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/orders/{id} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, ok := h.pathID(w, r)
	if !ok {
		orderRequestsTotal.WithLabelValues("bad_request").Inc()
		return
	}

	order, err := h.orders.GetOrder(ctx, id)
	orderRequestDuration.Observe(time.Since(start).Seconds())

	if errors.Is(err, entities.ErrOrderNotFound) {
		orderRequestsTotal.WithLabelValues("not_found").Inc()
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}

	if err != nil {
		orderRequestsTotal.WithLabelValues("error").Inc()
		h.internalError(ctx, w, "failed to get order", err, slog.Int64("order_id", id))
		return
	}

	orderRequestsTotal.WithLabelValues("ok").Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateOrderStatus меняет статус заказа. Переходы между статусами не ограничены.
// @Summary      Обновить статус заказа
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path      int           true  "Идентификатор заказа"
// @Param        status  body      StatusUpdate  true  "Новый статус"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Некорректный статус"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/orders/{id}/status [patch]
func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var body StatusUpdate
	if err := utils.DecodeBody(r, &body); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		utils.WriteValidationError(w, "invalid status", utils.ValidationFields(err))
		return
	}

	order, err := h.orders.UpdateOrderStatus(ctx, id, entities.OrderStatus(body.Status))

	switch {
	case errors.Is(err, entities.ErrInvalidStatus):
		statusUpdatesTotal.WithLabelValues("invalid").Inc()
		utils.WriteValidationError(w, "invalid status", map[string]string{"status": "oneof"})
	case errors.Is(err, entities.ErrOrderNotFound):
		statusUpdatesTotal.WithLabelValues("not_found").Inc()
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case err != nil:
		statusUpdatesTotal.WithLabelValues("error").Inc()
		h.internalError(ctx, w, "failed to update order status", err, slog.Int64("order_id", id))
	default:
		statusUpdatesTotal.WithLabelValues(string(order.Status)).Inc()
		utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
	}
}

// CreateProduct создает товар.
// @Summary      Создать товар
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      entities.ProductDraft  true  "Данные товара"
// @Success      201  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/products [post]
func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft entities.ProductDraft
	if err := utils.DecodeBody(r, &draft); err != nil {
		utils.WriteValidationError(w, "invalid product data", nil)
		return
	}

	product, err := h.products.CreateProduct(ctx, draft)

	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		utils.WriteValidationError(w, "invalid product data", ve.Fields)
		return
	}

	if err != nil {
		h.internalError(ctx, w, "failed to create product", err)
		return
	}

	productsCreatedTotal.Inc()
	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusCreated)
}

// GetProduct возвращает товар по ID.
// @Summary      Получить товар по ID
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Идентификатор товара"
// @Success      200  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Некорректный идентификатор"
// @Failure      404  {object}  utils.ErrorResponse "Товар не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/products/{id} [get]
func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetProduct(ctx, id)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.internalError(ctx, w, "failed to get product", err, slog.Int64("product_id", id))
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

// UpdateProduct полностью заменяет данные товара.
// @Summary      Обновить товар
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Идентификатор товара"
// @Param        product  body      entities.ProductDraft  true  "Данные товара"
// @Success      200  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Товар не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/products/{id} [put]
func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var draft entities.ProductDraft
	if err := utils.DecodeBody(r, &draft); err != nil {
		utils.WriteValidationError(w, "invalid product data", nil)
		return
	}

	product, err := h.products.UpdateProduct(ctx, id, draft)

	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.WriteValidationError(w, "invalid product data", ve.Fields)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case err != nil:
		h.internalError(ctx, w, "failed to update product", err, slog.Int64("product_id", id))
	default:
		utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
	}
}

// DeleteProduct удаляет товар. Позиции уже оформленных заказов не меняются.
// @Summary      Удалить товар
// @Tags         products
// @Param        id   path      int  true  "Идентификатор товара"
// @Success      204
// @Failure      400  {object}  utils.ValidationErrorResponse "Некорректный идентификатор"
// @Failure      404  {object}  utils.ErrorResponse "Товар не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/products/{id} [delete]
func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	err := h.products.DeleteProduct(ctx, id)

	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case err != nil:
		h.internalError(ctx, w, "failed to delete product", err, slog.Int64("product_id", id))
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListProducts возвращает товары с фильтрацией по категории и цене.
// @Summary      Список товаров
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Категория (без учета регистра)"
// @Param        minPrice  query     string  false  "Минимальная цена"
// @Param        maxPrice  query     string  false  "Максимальная цена"
// @Success      200  {array}   Product
// @Failure      400  {object}  utils.ValidationErrorResponse "Некорректный фильтр"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/products [get]
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := entities.ProductFilter{Category: query.Get("category")}
	fields := make(map[string]string)

	for key, dst := range map[string]**decimal.Decimal{
		"minPrice": &filter.MinPrice,
		"maxPrice": &filter.MaxPrice,
	} {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields[key] = "decimal"
			continue
		}
		*dst = &d
	}

	if len(fields) > 0 {
		utils.WriteValidationError(w, "invalid filter", fields)
		return
	}

	products, err := h.products.ListProducts(ctx, filter)
	if err != nil {
		h.internalError(ctx, w, "failed to list products", err)
		return
	}

	utils.WriteJSON(w, lo.Map(products, func(p entities.Product, _ int) Product {
		return ProductEntityToJSON(p)
	}), http.StatusOK)
}

func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteValidationError(w, "invalid id", map[string]string{"id": "gt=0"})
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) internalError(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	h.logger.ErrorContext(ctx, msg, append(attrs, slog.Any("error", err))...)
	utils.WriteError(w, "internal server error", http.StatusInternalServerError)
}

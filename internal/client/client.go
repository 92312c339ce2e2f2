package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/internal/handler"
	"github.com/SergeyBogomolovv/order-desk/pkg/utils"

	"github.com/samber/lo"
)

// APIError ответ сервера, не попавший ни в одну из известных ошибок.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListOrders(ctx context.Context) ([]entities.Order, error) {
	var orders []handler.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return lo.Map(orders, func(o handler.Order, _ int) entities.Order {
		return handler.OrderJSONToEntity(o)
	}), nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (entities.Order, error) {
	var order handler.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, &order, http.StatusOK)
	if apiStatus(err) == http.StatusNotFound {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return handler.OrderJSONToEntity(order), nil
}

// UpdateOrderStatus любую ошибку оборачивает в ErrUpdateFailed.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status entities.OrderStatus) (entities.Order, error) {
	var order handler.Order
	path := "/api/orders/" + strconv.FormatInt(id, 10) + "/status"
	err := c.do(ctx, http.MethodPatch, path, handler.StatusUpdate{Status: string(status)}, &order, http.StatusOK)

	switch apiStatus(err) {
	case 0:
	case http.StatusNotFound:
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, entities.ErrOrderNotFound)
	case http.StatusBadRequest:
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, entities.ErrInvalidStatus)
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, err)
	}
	return handler.OrderJSONToEntity(order), nil
}

func (c *Client) CreateProduct(ctx context.Context, draft entities.ProductDraft) (entities.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodPost, "/api/products", draft, &product, http.StatusCreated)

	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		return entities.Product{}, ve
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return handler.ProductJSONToEntity(product), nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, &product, http.StatusOK)
	if apiStatus(err) == http.StatusNotFound {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return handler.ProductJSONToEntity(product), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, draft entities.ProductDraft) (entities.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodPut, "/api/products/"+strconv.FormatInt(id, 10), draft, &product, http.StatusOK)

	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		return entities.Product{}, ve
	}
	if apiStatus(err) == http.StatusNotFound {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return handler.ProductJSONToEntity(product), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, http.StatusNoContent)
	if apiStatus(err) == http.StatusNotFound {
		return entities.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.MinPrice != nil {
		query.Set("minPrice", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		query.Set("maxPrice", filter.MaxPrice.String())
	}

	path := "/api/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var products []handler.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return lo.Map(products, func(p handler.Product, _ int) entities.Product {
		return handler.ProductJSONToEntity(p)
	}), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != want {
		return decodeError(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError возвращает *entities.ValidationError, если сервер прислал поля, иначе *APIError.
func decodeError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	var resp utils.ValidationErrorResponse
	_ = json.Unmarshal(data, &resp)

	if res.StatusCode == http.StatusBadRequest && resp.Message == entities.ErrInvalidProduct.Error() {
		return &entities.ValidationError{Fields: resp.Fields}
	}
	return &APIError{StatusCode: res.StatusCode, Message: resp.Message}
}

func apiStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

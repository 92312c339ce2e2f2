package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type ProductRepo interface {
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	GetProductByID(ctx context.Context, id int64) (entities.Product, error)
	UpdateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error)
}

type ProductEvents interface {
	ProductCreated(ctx context.Context, product entities.Product) error
	ProductUpdated(ctx context.Context, product entities.Product) error
	ProductDeleted(ctx context.Context, id int64) error
}

type productService struct {
	logger   *slog.Logger
	validate *validator.Validate
	repo     ProductRepo
	events   ProductEvents
}

func NewProductService(logger *slog.Logger, repo ProductRepo, events ProductEvents) *productService {
	return &productService{
		logger:   logger.With(slog.String("service", "product")),
		validate: utils.NewValidator(),
		repo:     repo,
		events:   events,
	}
}

// CreateProduct validates the draft on its own, regardless of what the caller checked.
func (s *productService) CreateProduct(ctx context.Context, draft entities.ProductDraft) (entities.Product, error) {
	if err := s.validateDraft(draft); err != nil {
		return entities.Product{}, err
	}

	product, err := s.repo.CreateProduct(ctx, draft.ToProduct(0))
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Debug("product created", slog.Int64("product_id", product.ID))

	if err := s.events.ProductCreated(ctx, product); err != nil {
		s.logger.Error("failed to publish product creation", slog.Int64("product_id", product.ID), slog.Any("error", err))
	}
	return product, nil
}

// UpdateProduct replaces every field of an existing product.
func (s *productService) UpdateProduct(ctx context.Context, id int64, draft entities.ProductDraft) (entities.Product, error) {
	if err := s.validateDraft(draft); err != nil {
		return entities.Product{}, err
	}

	product, err := s.repo.UpdateProduct(ctx, draft.ToProduct(id))
	if errors.Is(err, entities.ErrProductNotFound) {
		return entities.Product{}, err
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Debug("product updated", slog.Int64("product_id", product.ID))

	if err := s.events.ProductUpdated(ctx, product); err != nil {
		s.logger.Error("failed to publish product update", slog.Int64("product_id", product.ID), slog.Any("error", err))
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.repo.DeleteProduct(ctx, id)
	if errors.Is(err, entities.ErrProductNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Debug("product deleted", slog.Int64("product_id", id))

	if err := s.events.ProductDeleted(ctx, id); err != nil {
		s.logger.Error("failed to publish product deletion", slog.Int64("product_id", id), slog.Any("error", err))
	}
	return nil
}

func (s *productService) validateDraft(draft entities.ProductDraft) error {
	if err := s.validate.Struct(draft); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("failed to validate product: %w", err)
		}
		return &entities.ValidationError{Fields: utils.ValidationFields(err)}
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (entities.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return []entities.Product{}, nil
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

package service

import (
	"context"

	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/validator"

	"go.uber.org/zap"
)

// ProductService defines operations for menu items
type ProductService interface {
	CreateProduct(ctx context.Context, in model.ProductInput) ProductResult
	ListProducts(ctx context.Context) ProductsResult
	ListProductsByRestaurant(ctx context.Context, restaurantID string) ProductsResult
	GetProduct(ctx context.Context, id string) ProductResult
	UpdateProduct(ctx context.Context, id string, patch model.ProductPatch) ProductResult
	DeleteProduct(ctx context.Context, id string) Result
	SearchProductsByName(ctx context.Context, name string) ProductsResult
	FilterProducts(ctx context.Context, filter model.ProductFilter, order string) ProductsResult
}

type productService struct {
	products repository.ProductRepository
	gate     adminGate
	log      *zap.SugaredLogger
}

// NewProductService creates a new ProductService
func NewProductService(products repository.ProductRepository, sessions repository.SessionRepository, log *zap.SugaredLogger) ProductService {
	return &productService{
		products: products,
		gate:     adminGate{sessions: sessions, log: log},
		log:      log,
	}
}

// CreateProduct does not verify that the restaurant exists.
func (s *productService) CreateProduct(ctx context.Context, in model.ProductInput) ProductResult {
	if res, ok := s.gate.require(ctx, "create product"); !ok {
		return ProductResult{Result: res}
	}
	if report := validator.ValidateProduct(in); !report.Valid {
		return ProductResult{Result: failed(KindValidation, report.Message())}
	}

	product, err := s.products.Save(ctx, in.Product())
	if err != nil {
		return ProductResult{Result: failure(s.log, "create product", err)}
	}
	return ProductResult{Result: succeeded(), Product: product}
}

func (s *productService) ListProducts(ctx context.Context) ProductsResult {
	list, err := s.products.List(ctx)
	if err != nil {
		return ProductsResult{Result: failure(s.log, "list products", err)}
	}
	return ProductsResult{Result: succeeded(), Products: list}
}

func (s *productService) ListProductsByRestaurant(ctx context.Context, restaurantID string) ProductsResult {
	list, err := s.products.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return ProductsResult{Result: failure(s.log, "list products by restaurant", err)}
	}
	return ProductsResult{Result: succeeded(), Products: list}
}

func (s *productService) GetProduct(ctx context.Context, id string) ProductResult {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return ProductResult{Result: failure(s.log, "get product", err)}
	}
	if product == nil {
		return ProductResult{Result: failed(KindNotFound, repository.ErrProductNotFound.Error())}
	}
	return ProductResult{Result: succeeded(), Product: product}
}

// UpdateProduct validates the product as it would be after the patch.
func (s *productService) UpdateProduct(ctx context.Context, id string, patch model.ProductPatch) ProductResult {
	if res, ok := s.gate.require(ctx, "update product"); !ok {
		return ProductResult{Result: res}
	}

	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return ProductResult{Result: failure(s.log, "update product", err)}
	}
	if current == nil {
		return ProductResult{Result: failed(KindNotFound, repository.ErrProductNotFound.Error())}
	}
	merged := *current
	patch.Apply(&merged)
	if report := validator.ValidateProduct(merged.Input()); !report.Valid {
		return ProductResult{Result: failed(KindValidation, report.Message())}
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return ProductResult{Result: failure(s.log, "update product", err)}
	}
	return ProductResult{Result: succeeded(), Product: updated}
}

func (s *productService) DeleteProduct(ctx context.Context, id string) Result {
	if res, ok := s.gate.require(ctx, "delete product"); !ok {
		return res
	}
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return failure(s.log, "delete product", err)
	}
	if !deleted {
		return failed(KindNotFound, repository.ErrProductNotFound.Error())
	}
	return succeeded()
}

func (s *productService) SearchProductsByName(ctx context.Context, name string) ProductsResult {
	list, err := s.products.SearchByName(ctx, name)
	if err != nil {
		return ProductsResult{Result: failure(s.log, "search products", err)}
	}
	return ProductsResult{Result: succeeded(), Products: list}
}

// FilterProducts applies filter and, when order is "asc" or "desc", sorts by
// price. Otherwise the newest come first.
func (s *productService) FilterProducts(ctx context.Context, filter model.ProductFilter, order string) ProductsResult {
	var (
		list []model.Product
		err  error
	)
	if order == model.SortAscending || order == model.SortDescending {
		list, err = s.products.ListSortedByPrice(ctx, order)
		if err == nil {
			list = applyProductFilter(list, filter)
		}
	} else {
		list, err = s.products.Filter(ctx, filter)
	}
	if err != nil {
		return ProductsResult{Result: failure(s.log, "filter products", err)}
	}
	return ProductsResult{Result: succeeded(), Products: list}
}

func applyProductFilter(list []model.Product, f model.ProductFilter) []model.Product {
	out := make([]model.Product, 0, len(list))
	for _, p := range list {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

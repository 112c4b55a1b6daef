package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cardapio/internal/kvstore"
	"cardapio/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Save(ctx context.Context, product model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Product, error)
	Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	SearchByName(ctx context.Context, name string) ([]model.Product, error)
	Search(ctx context.Context, text string) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	ListByPriceRange(ctx context.Context, min, max float64) ([]model.Product, error)
	ListSortedByPrice(ctx context.Context, order string) ([]model.Product, error)
	Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

type productRepository struct {
	products *Collection[model.Product, *model.Product]
}

func NewProductRepository(store *kvstore.Adapter) ProductRepository {
	return &productRepository{products: NewCollection[model.Product](store)}
}

// Save does not check that RestaurantID points at a live restaurant.
func (r *productRepository) Save(ctx context.Context, product model.Product) (*model.Product, error) {
	saved, err := r.products.Insert(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return saved, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := r.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	list, err := r.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return list, nil
}

func (r *productRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Product, error) {
	return r.Filter(ctx, model.ProductFilter{RestaurantID: restaurantID})
}

func (r *productRepository) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	updated, err := r.products.Update(ctx, id, patch.Apply)
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.products.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return ok, nil
}

func (r *productRepository) SearchByName(ctx context.Context, name string) ([]model.Product, error) {
	return r.Filter(ctx, model.ProductFilter{Name: name})
}

// Search matches text against name or description, case-insensitively.
func (r *productRepository) Search(ctx context.Context, text string) ([]model.Product, error) {
	needle := strings.ToLower(text)
	list, err := r.products.Filter(ctx, func(p *model.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return list, nil
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return r.Filter(ctx, model.ProductFilter{Category: category})
}

// ListByPriceRange is inclusive on both ends.
func (r *productRepository) ListByPriceRange(ctx context.Context, min, max float64) ([]model.Product, error) {
	return r.Filter(ctx, model.ProductFilter{MinPrice: &min, MaxPrice: &max})
}

// ListSortedByPrice orders by price; anything other than "desc" is ascending.
func (r *productRepository) ListSortedByPrice(ctx context.Context, order string) ([]model.Product, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b model.Product) int {
		if order == model.SortDescending {
			return cmp.Compare(b.Price, a.Price)
		}
		return cmp.Compare(a.Price, b.Price)
	})
	return list, nil
}

func (r *productRepository) Filter(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	list, err := r.products.Filter(ctx, func(p *model.Product) bool { return f.Matches(*p) })
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	return list, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cardapio/internal/kvstore"
	"cardapio/internal/model"
	"cardapio/internal/validator"
)

var (
	ErrRestaurantNotFound     = errors.New("restaurant not found")
	ErrTaxIDAlreadyRegistered = errors.New("tax id already registered")
	ErrTaxIDInUse             = errors.New("tax id already in use by another restaurant")
)

type RestaurantRepository interface {
	Save(ctx context.Context, restaurant model.Restaurant) (*model.Restaurant, error)
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error)
	Delete(ctx context.Context, id string) (bool, error)
	TaxIDExists(ctx context.Context, taxID string) (bool, error)
	SearchByName(ctx context.Context, name string) ([]model.Restaurant, error)
	SearchByCity(ctx context.Context, city string) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	restaurants *Collection[model.Restaurant, *model.Restaurant]
}

func NewRestaurantRepository(store *kvstore.Adapter) RestaurantRepository {
	return &restaurantRepository{restaurants: NewCollection[model.Restaurant](store)}
}

// Save re-checks tax id uniqueness even when the caller already did.
func (r *restaurantRepository) Save(ctx context.Context, restaurant model.Restaurant) (*model.Restaurant, error) {
	existing, err := r.FindByTaxID(ctx, restaurant.TaxID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing restaurant: %w", err)
	}
	if existing != nil {
		return nil, ErrTaxIDAlreadyRegistered
	}
	saved, err := r.restaurants.Insert(ctx, restaurant)
	if err != nil {
		return nil, fmt.Errorf("failed to save restaurant: %w", err)
	}
	return saved, nil
}

func (r *restaurantRepository) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	rest, err := r.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	return rest, nil
}

// FindByTaxID compares digits only, so formatting does not matter.
func (r *restaurantRepository) FindByTaxID(ctx context.Context, taxID string) (*model.Restaurant, error) {
	want := validator.Digits(taxID)
	matches, err := r.restaurants.Filter(ctx, func(rest *model.Restaurant) bool {
		return validator.Digits(rest.TaxID) == want
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant by tax id: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	list, err := r.restaurants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return list, nil
}

func (r *restaurantRepository) Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRestaurantNotFound
	}

	if patch.TaxID != nil && validator.Digits(*patch.TaxID) != validator.Digits(existing.TaxID) {
		owner, err := r.FindByTaxID(ctx, *patch.TaxID)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, ErrTaxIDInUse
		}
	}

	updated, err := r.restaurants.Update(ctx, id, patch.Apply)
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return updated, nil
}

func (r *restaurantRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.restaurants.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return ok, nil
}

func (r *restaurantRepository) TaxIDExists(ctx context.Context, taxID string) (bool, error) {
	rest, err := r.FindByTaxID(ctx, taxID)
	if err != nil {
		return false, err
	}
	return rest != nil, nil
}

func (r *restaurantRepository) SearchByName(ctx context.Context, name string) ([]model.Restaurant, error) {
	needle := strings.ToLower(name)
	list, err := r.restaurants.Filter(ctx, func(rest *model.Restaurant) bool {
		return strings.Contains(strings.ToLower(rest.Name), needle)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants by name: %w", err)
	}
	return list, nil
}

func (r *restaurantRepository) SearchByCity(ctx context.Context, city string) ([]model.Restaurant, error) {
	needle := strings.ToLower(city)
	list, err := r.restaurants.Filter(ctx, func(rest *model.Restaurant) bool {
		return strings.Contains(strings.ToLower(rest.Address.City), needle)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants by city: %w", err)
	}
	return list, nil
}

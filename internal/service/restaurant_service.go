package service

import (
	"context"
	"strings"

	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/validator"

	"go.uber.org/zap"
)

// RestaurantService defines operations for restaurants
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, in model.RestaurantInput) RestaurantResult
	ListRestaurants(ctx context.Context) RestaurantsResult
	GetRestaurant(ctx context.Context, id string) RestaurantResult
	UpdateRestaurant(ctx context.Context, id string, patch model.RestaurantPatch) RestaurantResult
	DeleteRestaurant(ctx context.Context, id string) Result
	DeleteRestaurantCascade(ctx context.Context, id string) Result
	SearchRestaurants(ctx context.Context, filter model.RestaurantFilter) RestaurantsResult
}

type restaurantService struct {
	restaurants repository.RestaurantRepository
	products    ProductService
	gate        adminGate
	log         *zap.SugaredLogger
}

// NewRestaurantService creates a new RestaurantService. Products are removed
// through products when a restaurant is deleted in cascade.
func NewRestaurantService(
	restaurants repository.RestaurantRepository,
	products ProductService,
	sessions repository.SessionRepository,
	log *zap.SugaredLogger,
) RestaurantService {
	return &restaurantService{
		restaurants: restaurants,
		products:    products,
		gate:        adminGate{sessions: sessions, log: log},
		log:         log,
	}
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, in model.RestaurantInput) RestaurantResult {
	if res, ok := s.gate.require(ctx, "create restaurant"); !ok {
		return RestaurantResult{Result: res}
	}
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if report := validator.ValidateRestaurant(in); !report.Valid {
		return RestaurantResult{Result: failed(KindValidation, report.Message())}
	}

	exists, err := s.restaurants.TaxIDExists(ctx, in.TaxID)
	if err != nil {
		return RestaurantResult{Result: failure(s.log, "create restaurant", err)}
	}
	if exists {
		return RestaurantResult{Result: failed(KindConflict, repository.ErrTaxIDAlreadyRegistered.Error())}
	}

	restaurant, err := s.restaurants.Save(ctx, in.Restaurant())
	if err != nil {
		return RestaurantResult{Result: failure(s.log, "create restaurant", err)}
	}
	s.log.Infow("restaurant created", "restaurant_id", restaurant.ID)
	return RestaurantResult{Result: succeeded(), Restaurant: restaurant}
}

func (s *restaurantService) ListRestaurants(ctx context.Context) RestaurantsResult {
	list, err := s.restaurants.List(ctx)
	if err != nil {
		return RestaurantsResult{Result: failure(s.log, "list restaurants", err)}
	}
	return RestaurantsResult{Result: succeeded(), Restaurants: list}
}

func (s *restaurantService) GetRestaurant(ctx context.Context, id string) RestaurantResult {
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return RestaurantResult{Result: failure(s.log, "get restaurant", err)}
	}
	if restaurant == nil {
		return RestaurantResult{Result: failed(KindNotFound, repository.ErrRestaurantNotFound.Error())}
	}
	return RestaurantResult{Result: succeeded(), Restaurant: restaurant}
}

// UpdateRestaurant validates the restaurant as it would be after the patch.
// A tax id already owned by another restaurant is a conflict.
func (s *restaurantService) UpdateRestaurant(ctx context.Context, id string, patch model.RestaurantPatch) RestaurantResult {
	if res, ok := s.gate.require(ctx, "update restaurant"); !ok {
		return RestaurantResult{Result: res}
	}

	current, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return RestaurantResult{Result: failure(s.log, "update restaurant", err)}
	}
	if current == nil {
		return RestaurantResult{Result: failed(KindNotFound, repository.ErrRestaurantNotFound.Error())}
	}
	merged := *current
	patch.Apply(&merged)
	if report := validator.ValidateRestaurant(merged.Input()); !report.Valid {
		return RestaurantResult{Result: failed(KindValidation, report.Message())}
	}

	updated, err := s.restaurants.Update(ctx, id, patch)
	if err != nil {
		return RestaurantResult{Result: failure(s.log, "update restaurant", err)}
	}
	return RestaurantResult{Result: succeeded(), Restaurant: updated}
}

// DeleteRestaurant leaves the restaurant's products in place.
func (s *restaurantService) DeleteRestaurant(ctx context.Context, id string) Result {
	if res, ok := s.gate.require(ctx, "delete restaurant"); !ok {
		return res
	}
	deleted, err := s.restaurants.Delete(ctx, id)
	if err != nil {
		return failure(s.log, "delete restaurant", err)
	}
	if !deleted {
		return failed(KindNotFound, repository.ErrRestaurantNotFound.Error())
	}
	return succeeded()
}

// DeleteRestaurantCascade deletes the restaurant's products one by one and
// then the restaurant. A product that fails to delete is logged and skipped;
// nothing is rolled back.
func (s *restaurantService) DeleteRestaurantCascade(ctx context.Context, id string) Result {
	if res, ok := s.gate.require(ctx, "delete restaurant"); !ok {
		return res
	}

	products := s.products.ListProductsByRestaurant(ctx, id)
	if !products.Success {
		s.log.Warnw("could not list products for cascade delete", "restaurant_id", id, "error", products.Error)
	}
	for _, p := range products.Products {
		if res := s.products.DeleteProduct(ctx, p.ID); !res.Success {
			s.log.Warnw("product not deleted during cascade", "restaurant_id", id, "product_id", p.ID, "error", res.Error)
		}
	}

	return s.DeleteRestaurant(ctx, id)
}

// SearchRestaurants matches name and city as case-insensitive substrings.
// An empty filter lists everything.
func (s *restaurantService) SearchRestaurants(ctx context.Context, filter model.RestaurantFilter) RestaurantsResult {
	var (
		list []model.Restaurant
		err  error
	)
	switch {
	case filter.Name != "":
		list, err = s.restaurants.SearchByName(ctx, filter.Name)
	case filter.City != "":
		list, err = s.restaurants.SearchByCity(ctx, filter.City)
	default:
		list, err = s.restaurants.List(ctx)
	}
	if err != nil {
		return RestaurantsResult{Result: failure(s.log, "search restaurants", err)}
	}

	if filter.Name != "" && filter.City != "" {
		city := strings.ToLower(filter.City)
		kept := list[:0]
		for _, r := range list {
			if strings.Contains(strings.ToLower(r.Address.City), city) {
				kept = append(kept, r)
			}
		}
		list = kept
	}
	return RestaurantsResult{Result: succeeded(), Restaurants: list}
}

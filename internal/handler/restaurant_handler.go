package handler

import (
	"net/http"
	"strconv"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler handles restaurant requests
type RestaurantHandler struct {
	restaurants service.RestaurantService
	products    service.ProductService
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(restaurants service.RestaurantService, products service.ProductService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, products: products}
}

// List answers GET /restaurants, optionally narrowed by ?nome= and ?cidade=.
func (h *RestaurantHandler) List(c *gin.Context) {
	filter := model.RestaurantFilter{Name: c.Query("nome"), City: c.Query("cidade")}
	var res service.RestaurantsResult
	if filter.Name == "" && filter.City == "" {
		res = h.restaurants.ListRestaurants(c.Request.Context())
	} else {
		res = h.restaurants.SearchRestaurants(c.Request.Context(), filter)
	}
	if res.Restaurants == nil {
		res.Restaurants = []model.Restaurant{}
	}
	respond(c, http.StatusOK, res.Result, res)
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	res := h.restaurants.GetRestaurant(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, res.Result, res)
}

func (h *RestaurantHandler) Products(c *gin.Context) {
	res := h.products.ListProductsByRestaurant(c.Request.Context(), c.Param("id"))
	if res.Products == nil {
		res.Products = []model.Product{}
	}
	respond(c, http.StatusOK, res.Result, res)
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var in model.RestaurantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res := h.restaurants.CreateRestaurant(c.Request.Context(), in)
	respond(c, http.StatusCreated, res.Result, res)
}

func (h *RestaurantHandler) Update(c *gin.Context) {
	var patch model.RestaurantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	res := h.restaurants.UpdateRestaurant(c.Request.Context(), c.Param("id"), patch)
	respond(c, http.StatusOK, res.Result, res)
}

// Delete removes the restaurant; ?cascade=true removes its products first.
func (h *RestaurantHandler) Delete(c *gin.Context) {
	cascade, _ := strconv.ParseBool(c.Query("cascade"))
	var res service.Result
	if cascade {
		res = h.restaurants.DeleteRestaurantCascade(c.Request.Context(), c.Param("id"))
	} else {
		res = h.restaurants.DeleteRestaurant(c.Request.Context(), c.Param("id"))
	}
	respond(c, http.StatusOK, res, res)
}

// RegisterRestaurantRoutes registers restaurant routes
func (h *RestaurantHandler) RegisterRestaurantRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	public := rg.Group("/restaurants")
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
		public.GET("/:id/products", h.Products)
	}

	admin := rg.Group("/restaurants")
	admin.Use(authMW, adminMW)
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

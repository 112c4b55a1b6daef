package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductHandler handles menu item requests
type ProductHandler struct {
	service service.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func queryPrice(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// List answers GET /products. Query parameters: nome, categoria, precoMin,
// precoMax, restauranteId and ordem (asc|desc by price).
func (h *ProductHandler) List(c *gin.Context) {
	filter := model.ProductFilter{
		Name:         c.Query("nome"),
		Category:     c.Query("categoria"),
		RestaurantID: c.Query("restauranteId"),
	}
	var err error
	if filter.MinPrice, err = queryPrice(c, "precoMin"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.MaxPrice, err = queryPrice(c, "precoMax"); err != nil {
		badRequest(c, err)
		return
	}

	res := h.service.FilterProducts(c.Request.Context(), filter, c.Query("ordem"))
	if res.Products == nil {
		res.Products = []model.Product{}
	}
	respond(c, http.StatusOK, res.Result, res)
}

func (h *ProductHandler) Get(c *gin.Context) {
	res := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, res.Result, res)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in model.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res := h.service.CreateProduct(c.Request.Context(), in)
	respond(c, http.StatusCreated, res.Result, res)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var patch model.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	res := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	respond(c, http.StatusOK, res.Result, res)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	res := h.service.DeleteProduct(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, res, res)
}

// RegisterProductRoutes registers product routes
func (h *ProductHandler) RegisterProductRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	public := rg.Group("/products")
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
	}

	admin := rg.Group("/products")
	admin.Use(authMW, adminMW)
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

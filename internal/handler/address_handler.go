package handler

import (
	"errors"
	"net/http"

	"cardapio/internal/address"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddressHandler pre-fills address fields from a postal code.
type AddressHandler struct {
	resolver address.Resolver
	log      *zap.SugaredLogger
}

func NewAddressHandler(r address.Resolver, log *zap.SugaredLogger) *AddressHandler {
	return &AddressHandler{resolver: r, log: log}
}

func (h *AddressHandler) Lookup(c *gin.Context) {
	found, err := h.resolver.Resolve(c.Request.Context(), c.Param("postalCode"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "address": found})
	case errors.Is(err, address.ErrInvalidPostalCode):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, address.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		h.log.Errorw("postal code lookup failed", "postal_code", c.Param("postalCode"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "postal code lookup unavailable"})
	}
}

// RegisterAddressRoutes registers address routes
func (h *AddressHandler) RegisterAddressRoutes(rg *gin.RouterGroup) {
	rg.GET("/addresses/:postalCode", h.Lookup)
}

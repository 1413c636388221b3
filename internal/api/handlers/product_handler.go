// backend-go/internal/api/handlers/product_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products repository.ProductRepository
}

func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, total, err := h.products.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	product, err := h.products.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

type upsertProductRequest struct {
	SKU    string                 `json:"sku"`
	Name   string                 `json:"name"`
	Params domain.InventoryParams `json:"params"`
}

func (h *ProductHandler) Upsert(c *gin.Context) {
	var req upsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if strings.TrimSpace(req.SKU) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}
	if err := req.Params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters", "details": err.Error()})
		return
	}

	product := &domain.Product{
		SKU:    strings.TrimSpace(req.SKU),
		Name:   strings.TrimSpace(req.Name),
		Params: req.Params,
	}
	if err := h.products.Upsert(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

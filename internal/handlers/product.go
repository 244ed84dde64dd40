package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ravitejak99/storefront-go/internal/db"
	"github.com/ravitejak99/storefront-go/internal/models"
)

type ProductHandler struct {
	repo *db.CachedProductRepository
}

func NewProductHandler(repo *db.CachedProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// ListProducts returns products, optionally filtered by category and
// price range (?category=&min_price=&max_price=)
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filter models.ProductFilter

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if raw := c.Query("min_price"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		filter.MinPrice = &min
	}
	if raw := c.Query("max_price"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		filter.MaxPrice = &max
	}

	products, err := h.repo.GetAll(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeNotFoundOr(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalog
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a product's catalog fields
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		writeNotFoundOr(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeNotFoundOr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

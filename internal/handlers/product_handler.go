package handlers

import (
	"net/http"
	"strconv"

	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetProducts lists active products, ordered by name.
func GetProducts(c *gin.Context) {
	products, err := database.ListActiveProducts(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

type ProductRequest struct {
	ProductName     string          `json:"product_name" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	BasePrice       decimal.Decimal `json:"base_price" binding:"required"`
	ShelfLifeDays   int             `json:"shelf_life_days" binding:"required,gt=0"`
	MeasurementType string          `json:"measurement_type" binding:"required"`
}

// AddProduct creates a catalog entry. New products start active.
func AddProduct(c *gin.Context) {
	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	if !input.BasePrice.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_price must be positive"})
		return
	}
	if !models.ValidMeasurementType(input.MeasurementType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown measurement_type"})
		return
	}

	product := models.Product{
		ProductName:     input.ProductName,
		Description:     input.Description,
		Category:        input.Category,
		BasePrice:       input.BasePrice,
		ShelfLifeDays:   input.ShelfLifeDays,
		MeasurementType: input.MeasurementType,
		IsActive:        true,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update: only the fields present in the
// body are touched.
func UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct deactivates a product instead of removing the row, so
// existing batches and sale history keep a valid reference.
func DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := database.DB.Model(&product).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

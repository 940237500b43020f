package handlers

import (
	"net/http"
	"time"

	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BatchRequest struct {
	BatchNo          string `json:"batch_no" binding:"required"`
	ProductID        uint   `json:"product_id" binding:"required"`
	QuantityProduced int    `json:"quantity_produced" binding:"required,gt=0"`
	ManufacturedDate string `json:"manufactured_date" binding:"required"`
	ExpiryDate       string `json:"expiry_date" binding:"required"`
}

// CreateBatch records a production run. Batch numbers are unique across
// the whole system, and expiry must fall after manufacture.
func CreateBatch(c *gin.Context) {
	var input BatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	mfd, err := time.Parse("2006-01-02", input.ManufacturedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manufactured_date must be YYYY-MM-DD"})
		return
	}
	exp, err := time.Parse("2006-01-02", input.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be YYYY-MM-DD"})
		return
	}
	if !exp.After(mfd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be after manufactured_date"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var count int64
	database.DB.Model(&models.Batch{}).Where("batch_no = ?", input.BatchNo).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Batch number already exists"})
		return
	}

	batch := models.Batch{
		BatchNo:          input.BatchNo,
		ProductID:        input.ProductID,
		QuantityProduced: input.QuantityProduced,
		ManufacturedDate: mfd,
		ExpiryDate:       exp,
	}
	if err := database.DB.Create(&batch).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Batch number already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Batch Created Successfully!", "batch": batch})
}

// GetFactoryStats returns today's factory dashboard counters.
func GetFactoryStats(c *gin.Context) {
	stats, err := database.GetFactoryStats(database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type DistributeRequest struct {
	OutletID uint `json:"outlet_id" binding:"required"`
	BatchID  uint `json:"batch_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// DistributeStock moves a batch from the factory to an outlet, creating
// or incrementing the (outlet, batch) stock row.
func DistributeStock(c *gin.Context) {
	var input DistributeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	var outlet models.Outlet
	if err := database.DB.First(&outlet, input.OutletID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Outlet not found"})
		return
	}
	var batch models.Batch
	if err := database.DB.First(&batch, input.BatchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	var stock *models.OutletStock
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		stock, txErr = database.AddBatchStock(tx, input.OutletID, input.BatchID, input.Quantity)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to distribute stock"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock distributed", "stock": stock})
}

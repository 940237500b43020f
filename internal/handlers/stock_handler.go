package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetOutletStock returns an outlet's available stock in FIFO order:
// ascending batch expiry, zero-quantity rows excluded.
func GetOutletStock(c *gin.Context) {
	outletID, err := strconv.Atoi(c.Param("outlet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid outlet ID"})
		return
	}

	rows, err := database.GetStockForOutlet(database.DB, uint(outletID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

type WastageRequest struct {
	OutletID uint   `json:"outlet_id" binding:"required"`
	BatchID  uint   `json:"batch_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required"`
	Notes    string `json:"notes"`
}

// RecordWastage removes stock of one batch from an outlet for a recorded
// reason, attributed to the employee behind the request. The decrement and
// the wastage row are written in one transaction.
func RecordWastage(c *gin.Context) {
	var input WastageRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	if !models.ValidWastageReason(input.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown wastage reason"})
		return
	}

	userID := c.MustGet("userID").(uint)
	var employeeID *uint
	var employee models.Employee
	if err := database.DB.Where("user_id = ?", userID).First(&employee).Error; err == nil {
		employeeID = &employee.ID
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.DecrementBatchStock(tx, input.OutletID, input.BatchID, input.Quantity); err != nil {
			return err
		}
		wastage := models.Wastage{
			OutletID:   input.OutletID,
			BatchID:    input.BatchID,
			Quantity:   input.Quantity,
			Reason:     input.Reason,
			EmployeeID: employeeID,
			RecordedAt: time.Now(),
			Notes:      input.Notes,
		}
		return tx.Create(&wastage).Error
	})
	if errors.Is(err, database.ErrStockNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stock for that outlet and batch"})
		return
	}
	if errors.Is(err, database.ErrInsufficientStock) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wastage exceeds available stock"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record wastage"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Wastage recorded"})
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRequest struct {
	OutletID      uint   `json:"outlet_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	CustomerID    *uint  `json:"customer_id"`
	Items         []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gt=0"`
	} `json:"items" binding:"required,min=1,dive"`
}

// ProcessSale runs a point-of-sale checkout. Each product in the cart is
// depleted from the outlet's stock oldest-expiry-first, producing one sale
// item per batch consumed so the depletion stays traceable. Stock updates,
// the sale, its items and the payment all commit together; any shortage
// rolls back the whole cart.
func ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "detail": err.Error()})
		return
	}

	if !models.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	var outlet models.Outlet
	if err := database.DB.First(&outlet, req.OutletID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Outlet not found"})
		return
	}

	userID := c.MustGet("userID").(uint)
	var employeeID *uint
	var employee models.Employee
	if err := database.DB.Where("user_id = ?", userID).First(&employee).Error; err == nil {
		employeeID = &employee.ID
	}

	var sale models.Sale
	var shortage string
	var missingProduct bool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		var saleItems []models.SaleItem

		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				missingProduct = true
				return err
			}

			depletions, err := database.DepleteStockFIFO(tx, req.OutletID, product.ID, item.Quantity, product.BasePrice)
			if err != nil {
				if errors.Is(err, database.ErrInsufficientStock) {
					shortage = fmt.Sprintf("Insufficient stock for %s", product.ProductName)
				}
				return err
			}

			for _, d := range depletions {
				subtotal := d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
				saleItems = append(saleItems, models.SaleItem{
					BatchID:   d.BatchID,
					Quantity:  d.Quantity,
					UnitPrice: d.UnitPrice,
					Subtotal:  subtotal,
				})
				total = total.Add(subtotal)
			}
		}

		sale = models.Sale{
			BillNo:         billNo(),
			OutletID:       req.OutletID,
			EmployeeID:     employeeID,
			CustomerID:     req.CustomerID,
			SaleDate:       time.Now(),
			TotalAmount:    total,
			DiscountAmount: decimal.Zero,
			NetAmount:      total,
			Status:         models.SaleCompleted,
			Items:          saleItems,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		payment := models.Payment{
			SaleID:        &sale.ID,
			Amount:        sale.NetAmount,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.PaymentSuccess,
			ReferenceNo:   uuid.NewString(),
			PaymentDate:   time.Now(),
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		if missingProduct {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if shortage != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": shortage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process sale"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale completed",
		"sale_id": sale.ID,
		"bill_no": sale.BillNo,
		"total":   sale.NetAmount,
	})
}

// billNo generates a unique human-shareable bill number.
func billNo() string {
	return "BILL-" + strings.ToUpper(uuid.NewString()[:8])
}

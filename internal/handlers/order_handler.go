package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRequest struct {
	OutletID            uint   `json:"outlet_id" binding:"required"`
	PickupDate          string `json:"pickup_date" binding:"required"`
	SpecialInstructions string `json:"special_instructions"`
	PaymentMethod       string `json:"payment_method"`
	Items               []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gt=0"`
	} `json:"items" binding:"required,min=1,dive"`
}

// PlaceOrder lets a customer book a pickup order. Unit prices are locked
// in from the catalog at order time; the order starts PENDING. When a
// payment method is given, a pending payment is attached.
func PlaceOrder(c *gin.Context) {
	var input OrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	pickup, err := time.Parse("2006-01-02", input.PickupDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_date must be YYYY-MM-DD"})
		return
	}

	if input.PaymentMethod != "" && !models.ValidPaymentMethod(input.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	userID := c.MustGet("userID").(uint)
	var customer models.Customer
	if err := database.DB.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No customer profile for this account"})
		return
	}

	var outlet models.Outlet
	if err := database.DB.First(&outlet, input.OutletID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Outlet not found"})
		return
	}

	var order models.CustomerOrder
	var missing bool

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		var items []models.CustomerOrderItem

		for _, line := range input.Items {
			var product models.Product
			err := tx.Where("id = ? AND is_active = ?", line.ProductID, true).First(&product).Error
			if err != nil {
				missing = true
				return err
			}

			items = append(items, models.CustomerOrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.BasePrice,
			})
			total = total.Add(product.BasePrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order = models.CustomerOrder{
			CustomerID:          customer.ID,
			OutletID:            input.OutletID,
			OrderDate:           time.Now(),
			PickupDate:          pickup,
			Status:              models.OrderPending,
			TotalAmount:         total,
			SpecialInstructions: input.SpecialInstructions,
			Items:               items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if input.PaymentMethod == "" {
			return nil
		}
		payment := models.Payment{
			CustomerOrderID: &order.ID,
			Amount:          total,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   models.PaymentPending,
			ReferenceNo:     uuid.NewString(),
			PaymentDate:     time.Now(),
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		if missing {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or inactive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

// ListOrders returns customer orders, optionally filtered by outlet_id
// and status query params, newest first. Staff see every order; a
// customer only ever sees their own.
func ListOrders(c *gin.Context) {
	query := database.DB.Preload("Items").Order("order_date DESC")

	if c.MustGet("role").(string) == models.RoleCustomer {
		userID := c.MustGet("userID").(uint)
		var customer models.Customer
		if err := database.DB.Where("user_id = ?", userID).First(&customer).Error; err != nil {
			c.JSON(http.StatusOK, []models.CustomerOrder{})
			return
		}
		query = query.Where("customer_id = ?", customer.ID)
	}

	if outletID := c.Query("outlet_id"); outletID != "" {
		query = query.Where("outlet_id = ?", outletID)
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	orders := []models.CustomerOrder{}
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order along its lifecycle.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input OrderStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	var order models.CustomerOrder
	if err := database.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := database.DB.Model(&order).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

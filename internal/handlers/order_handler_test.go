package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go-bakery-pos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerOrders(t *testing.T) {
	r, db := setupTest(t)

	customerUser := createUser(t, db, "sweettooth", "some-password", models.RoleCustomer)
	createCustomerProfile(t, db, customerUser)
	salesUser := createUser(t, db, "clerk", "some-password", models.RoleSalesperson)

	outlet := seedOutlet(t, db, "Seaside Outlet")
	cake := seedProduct(t, db, "Chocolate Cake", "18.00")
	bun := seedProduct(t, db, "Cream Bun", "1.50")

	orderBody := map[string]interface{}{
		"outlet_id":      outlet.ID,
		"pickup_date":    "2025-07-01",
		"payment_method": models.PaymentCard,
		"items": []map[string]interface{}{
			{"product_id": cake.ID, "quantity": 1},
			{"product_id": bun.ID, "quantity": 4},
		},
	}

	t.Run("staff cannot place customer orders", func(t *testing.T) {
		w := perform(t, r, "POST", "/orders", orderBody, tokenFor(t, salesUser))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("customer places an order with locked-in prices", func(t *testing.T) {
		w := perform(t, r, "POST", "/orders", orderBody, tokenFor(t, customerUser))
		require.Equal(t, http.StatusCreated, w.Code)

		var order models.CustomerOrder
		require.NoError(t, db.Preload("Items").Last(&order).Error)
		assert.Equal(t, models.OrderPending, order.Status)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("24.00")), "18.00 + 4 x 1.50")
		require.Len(t, order.Items, 2)
		assert.True(t, order.Items[0].UnitPrice.Equal(cake.BasePrice))

		var payment models.Payment
		require.NoError(t, db.Where("customer_order_id = ?", order.ID).First(&payment).Error)
		assert.Equal(t, models.PaymentPending, payment.PaymentStatus)
		assert.Nil(t, payment.SaleID, "payment must reference the order only")
	})

	t.Run("inactive products cannot be ordered", func(t *testing.T) {
		require.NoError(t, db.Model(&bun).Update("is_active", false).Error)
		defer db.Model(&bun).Update("is_active", true)

		w := perform(t, r, "POST", "/orders", orderBody, tokenFor(t, customerUser))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("customers only see their own orders", func(t *testing.T) {
		otherUser := createUser(t, db, "crumbfan", "some-password", models.RoleCustomer)
		createCustomerProfile(t, db, otherUser)

		w := perform(t, r, "GET", "/orders", nil, tokenFor(t, otherUser))
		require.Equal(t, http.StatusOK, w.Code)
		var orders []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		assert.Empty(t, orders, "a customer must not see other customers' orders")

		w = perform(t, r, "GET", "/orders", nil, tokenFor(t, customerUser))
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		assert.Len(t, orders, 1)
	})

	t.Run("staff list and filter orders", func(t *testing.T) {
		w := perform(t, r, "GET", fmt.Sprintf("/orders?outlet_id=%d&status=PENDING", outlet.ID), nil, tokenFor(t, salesUser))
		require.Equal(t, http.StatusOK, w.Code)

		var orders []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		assert.Len(t, orders, 1)
	})

	t.Run("bad status filter", func(t *testing.T) {
		w := perform(t, r, "GET", "/orders?status=IMAGINARY", nil, tokenFor(t, salesUser))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("salesperson moves the order along", func(t *testing.T) {
		var order models.CustomerOrder
		require.NoError(t, db.Last(&order).Error)

		w := perform(t, r, "PUT", fmt.Sprintf("/orders/%d/status", order.ID),
			map[string]string{"status": models.OrderPreparing}, tokenFor(t, salesUser))
		require.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, db.First(&order, order.ID).Error)
		assert.Equal(t, models.OrderPreparing, order.Status)
	})

	t.Run("unknown target status", func(t *testing.T) {
		var order models.CustomerOrder
		require.NoError(t, db.Last(&order).Error)

		w := perform(t, r, "PUT", fmt.Sprintf("/orders/%d/status", order.ID),
			map[string]string{"status": "TELEPORTED"}, tokenFor(t, salesUser))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

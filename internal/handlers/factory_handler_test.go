package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"go-bakery-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBatch(t *testing.T) {
	r, db := setupTest(t)
	user := createUser(t, db, "factoryhand", "some-password", models.RoleFactoryDistributor)
	bread := seedProduct(t, db, "Rye Bread", "3.00")

	payload := map[string]interface{}{
		"batch_no":          "RY-2025-001",
		"product_id":        bread.ID,
		"quantity_produced": 120,
		"manufactured_date": "2025-06-10",
		"expiry_date":       "2025-06-15",
	}

	t.Run("creates a batch", func(t *testing.T) {
		w := perform(t, r, "POST", "/factory/create-batch", payload, tokenFor(t, user))
		require.Equal(t, http.StatusCreated, w.Code)

		var batch models.Batch
		require.NoError(t, db.Where("batch_no = ?", "RY-2025-001").First(&batch).Error)
		assert.Equal(t, 120, batch.QuantityProduced)
	})

	t.Run("duplicate batch number is a conflict", func(t *testing.T) {
		w := perform(t, r, "POST", "/factory/create-batch", payload, tokenFor(t, user))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		bad := map[string]interface{}{
			"batch_no":          "RY-2025-002",
			"product_id":        999,
			"quantity_produced": 10,
			"manufactured_date": "2025-06-10",
			"expiry_date":       "2025-06-15",
		}
		w := perform(t, r, "POST", "/factory/create-batch", bad, tokenFor(t, user))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("expiry before manufacture", func(t *testing.T) {
		bad := map[string]interface{}{
			"batch_no":          "RY-2025-003",
			"product_id":        bread.ID,
			"quantity_produced": 10,
			"manufactured_date": "2025-06-10",
			"expiry_date":       "2025-06-09",
		}
		w := perform(t, r, "POST", "/factory/create-batch", bad, tokenFor(t, user))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFactoryStatsEndpoint(t *testing.T) {
	r, db := setupTest(t)
	user := createUser(t, db, "factoryhand", "some-password", models.RoleFactoryDistributor)
	bread := seedProduct(t, db, "Bagel", "2.40")

	for i, no := range []string{"BG-1", "BG-2"} {
		batch := models.Batch{
			BatchNo:          no,
			ProductID:        bread.ID,
			QuantityProduced: 50 + i,
			ManufacturedDate: time.Now(),
			ExpiryDate:       time.Now().AddDate(0, 0, 4),
		}
		require.NoError(t, db.Create(&batch).Error)
	}

	w := perform(t, r, "GET", "/factory/stats", nil, tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(2), body["batchesProduced"])
	assert.Equal(t, float64(0), body["pendingCustomerOrders"])
	assert.Equal(t, float64(0), body["dispatchedOrders"])
	assert.Empty(t, body["recentActivity"])
}

func TestDistributeStock(t *testing.T) {
	r, db := setupTest(t)
	distributor := createUser(t, db, "factoryhand", "some-password", models.RoleFactoryDistributor)
	sales := createUser(t, db, "clerk", "some-password", models.RoleSalesperson)

	outlet := seedOutlet(t, db, "Fort Outlet")
	bread := seedProduct(t, db, "Milk Bread", "3.50")
	batch := seedBatch(t, db, bread, "MB-01", "2025-06-10", "2025-06-16", 200)

	payload := map[string]interface{}{
		"outlet_id": outlet.ID,
		"batch_id":  batch.ID,
		"quantity":  40,
	}

	t.Run("only the factory distributor may distribute", func(t *testing.T) {
		w := perform(t, r, "POST", "/factory/distribute", payload, tokenFor(t, sales))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("first distribution creates the stock row", func(t *testing.T) {
		w := perform(t, r, "POST", "/factory/distribute", payload, tokenFor(t, distributor))
		require.Equal(t, http.StatusCreated, w.Code)

		var stock models.OutletStock
		require.NoError(t, db.Where("outlet_id = ? AND batch_id = ?", outlet.ID, batch.ID).First(&stock).Error)
		assert.Equal(t, 40, stock.CurrentQuantity)
	})

	t.Run("second distribution increments the same row", func(t *testing.T) {
		w := perform(t, r, "POST", "/factory/distribute", payload, tokenFor(t, distributor))
		require.Equal(t, http.StatusCreated, w.Code)

		var stocks []models.OutletStock
		require.NoError(t, db.Where("outlet_id = ? AND batch_id = ?", outlet.ID, batch.ID).Find(&stocks).Error)
		require.Len(t, stocks, 1)
		assert.Equal(t, 80, stocks[0].CurrentQuantity)
	})

	t.Run("unknown outlet", func(t *testing.T) {
		bad := map[string]interface{}{"outlet_id": 999, "batch_id": batch.ID, "quantity": 5}
		w := perform(t, r, "POST", "/factory/distribute", bad, tokenFor(t, distributor))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetOutletStockEndpoint(t *testing.T) {
	r, db := setupTest(t)
	user := createUser(t, db, "clerk", "some-password", models.RoleSalesperson)

	outlet := seedOutlet(t, db, "Station Outlet")
	bread := seedProduct(t, db, "Sourdough Loaf", "4.50")
	gone := seedBatch(t, db, bread, "A-001", "2025-01-05", "2025-01-10", 30)
	last := seedBatch(t, db, bread, "B-001", "2025-01-27", "2025-02-01", 30)
	first := seedBatch(t, db, bread, "C-001", "2025-01-15", "2025-01-20", 30)
	seedStock(t, db, outlet, gone, 0)
	seedStock(t, db, outlet, last, 20)
	seedStock(t, db, outlet, first, 5)

	w := perform(t, r, "GET", fmt.Sprintf("/stock/%d", outlet.ID), nil, tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "C-001", rows[0]["batch_no"])
	assert.Equal(t, "B-001", rows[1]["batch_no"])
}

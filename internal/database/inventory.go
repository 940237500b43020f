package database

import (
	"time"

	"go-bakery-pos/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockNotFound     = errors.New("stock row not found")
)

// StockRow is one entry of an outlet's available stock, flattened with
// its batch and product details for display.
type StockRow struct {
	StockID         uint            `json:"stock_id"`
	CurrentQuantity int             `json:"current_quantity"`
	BatchID         uint            `json:"batch"`
	ProductName     string          `json:"product_name"`
	BatchNo         string          `json:"batch_no"`
	Price           decimal.Decimal `json:"price"`
}

// GetStockForOutlet returns the outlet's stock with current_quantity > 0,
// ordered ascending by batch expiry date. Consumers that deplete top-down
// from this result get first-in-first-out consumption: the oldest-expiring
// batch always sells first. An unknown or empty outlet yields an empty slice.
func GetStockForOutlet(db *gorm.DB, outletID uint) ([]StockRow, error) {
	rows := []StockRow{}
	err := db.Table("outlet_stocks").
		Select("outlet_stocks.id AS stock_id, outlet_stocks.current_quantity, outlet_stocks.batch_id, products.product_name, batches.batch_no, products.base_price AS price").
		Joins("JOIN batches ON batches.id = outlet_stocks.batch_id").
		Joins("JOIN products ON products.id = batches.product_id").
		Where("outlet_stocks.outlet_id = ? AND outlet_stocks.current_quantity > 0", outletID).
		Order("batches.expiry_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query outlet stock")
	}
	return rows, nil
}

// ListActiveProducts returns active products ordered by name.
func ListActiveProducts(db *gorm.DB) ([]models.Product, error) {
	products := []models.Product{}
	err := db.Where("is_active = ?", true).
		Order("product_name ASC").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return products, nil
}

// Depletion records how much of one batch a FIFO consumption took.
type Depletion struct {
	BatchID   uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// forUpdate adds a row lock on MySQL. SQLite (used by tests) serializes
// writers itself and rejects the FOR UPDATE syntax.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// DepleteStockFIFO consumes `quantity` units of a product from an outlet's
// stock, draining rows in ascending batch-expiry order. Must run inside a
// transaction: rows are locked, decremented and saved here, and the caller
// rolls everything back if any product in the cart cannot be covered.
// Quantities never go below zero.
func DepleteStockFIFO(tx *gorm.DB, outletID, productID uint, quantity int, unitPrice decimal.Decimal) ([]Depletion, error) {
	var stocks []models.OutletStock
	err := forUpdate(tx).
		Joins("JOIN batches ON batches.id = outlet_stocks.batch_id").
		Where("outlet_stocks.outlet_id = ? AND batches.product_id = ? AND outlet_stocks.current_quantity > 0", outletID, productID).
		Order("batches.expiry_date ASC").
		Find(&stocks).Error
	if err != nil {
		return nil, errors.Wrap(err, "lock stock rows")
	}

	remaining := quantity
	var taken []Depletion
	for i := range stocks {
		if remaining == 0 {
			break
		}
		take := stocks[i].CurrentQuantity
		if take > remaining {
			take = remaining
		}

		stocks[i].CurrentQuantity -= take
		stocks[i].LastUpdated = time.Now()
		if err := tx.Save(&stocks[i]).Error; err != nil {
			return nil, errors.Wrap(err, "update stock row")
		}

		taken = append(taken, Depletion{
			BatchID:   stocks[i].BatchID,
			Quantity:  take,
			UnitPrice: unitPrice,
		})
		remaining -= take
	}

	if remaining > 0 {
		return nil, ErrInsufficientStock
	}
	return taken, nil
}

// DecrementBatchStock removes `quantity` units of one specific batch from an
// outlet, used by wastage recording. Must run inside a transaction.
func DecrementBatchStock(tx *gorm.DB, outletID, batchID uint, quantity int) error {
	var stock models.OutletStock
	err := forUpdate(tx).
		Where("outlet_id = ? AND batch_id = ?", outletID, batchID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStockNotFound
	}
	if err != nil {
		return errors.Wrap(err, "lock stock row")
	}

	if stock.CurrentQuantity < quantity {
		return ErrInsufficientStock
	}

	stock.CurrentQuantity -= quantity
	stock.LastUpdated = time.Now()
	return errors.Wrap(tx.Save(&stock).Error, "update stock row")
}

// AddBatchStock creates or increments the (outlet, batch) stock row when the
// factory distributes a batch to an outlet. Must run inside a transaction so
// two concurrent distributions cannot both create the row.
func AddBatchStock(tx *gorm.DB, outletID, batchID uint, quantity int) (*models.OutletStock, error) {
	var stock models.OutletStock
	err := forUpdate(tx).
		Where("outlet_id = ? AND batch_id = ?", outletID, batchID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stock = models.OutletStock{
			OutletID:        outletID,
			BatchID:         batchID,
			CurrentQuantity: quantity,
			LastUpdated:     time.Now(),
		}
		if err := tx.Create(&stock).Error; err != nil {
			return nil, errors.Wrap(err, "create stock row")
		}
		return &stock, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lock stock row")
	}

	stock.CurrentQuantity += quantity
	stock.LastUpdated = time.Now()
	if err := tx.Save(&stock).Error; err != nil {
		return nil, errors.Wrap(err, "update stock row")
	}
	return &stock, nil
}

package database

import (
	"time"

	"go-bakery-pos/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FactoryStats holds the dashboard counters for the factory view.
// DispatchedOrders and RecentActivity are declared placeholders and stay
// zero/empty until the dispatch workflow exists.
type FactoryStats struct {
	PendingCustomerOrders int64    `json:"pendingCustomerOrders"`
	BatchesProduced       int64    `json:"batchesProduced"`
	DispatchedOrders      int64    `json:"dispatchedOrders"`
	RecentActivity        []string `json:"recentActivity"`
}

// GetFactoryStats counts pending customer orders and batches manufactured
// on the given day.
func GetFactoryStats(db *gorm.DB, day time.Time) (*FactoryStats, error) {
	stats := FactoryStats{RecentActivity: []string{}}

	err := db.Model(&models.CustomerOrder{}).
		Where("status = ?", models.OrderPending).
		Count(&stats.PendingCustomerOrders).Error
	if err != nil {
		return nil, errors.Wrap(err, "count pending orders")
	}

	// Batch dates are stored as UTC midnights, so the day window has to
	// be the UTC date regardless of the server's zone.
	d := day.UTC()
	dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	err = db.Model(&models.Batch{}).
		Where("manufactured_date >= ? AND manufactured_date < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.BatchesProduced).Error
	if err != nil {
		return nil, errors.Wrap(err, "count batches produced")
	}

	return &stats, nil
}

package database

import (
	"time"

	"go-bakery-pos/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection, runs migrations and seeds the
// fixed role set. The retry loop covers container startup races where
// the database is not accepting connections yet.
func Connect(dsn string) error {
	var err error
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		logrus.WithError(err).Warnf("database not ready, retrying in 2s (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}
	if err := SeedRoles(DB); err != nil {
		return err
	}

	logrus.Info("database connected and schema synced")
	return nil
}

// Migrate syncs the full schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Product{},
		&models.Batch{},
		&models.Outlet{},
		&models.OutletStock{},
		&models.Employee{},
		&models.Customer{},
		&models.CustomerOrder{},
		&models.CustomerOrderItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.Wastage{},
	)
}

// SeedRoles makes sure the five fixed roles exist. Registration flows
// depend on the CUSTOMER role being present.
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{RoleName: models.RoleAdmin, Description: "Full system access"},
		{RoleName: models.RoleManager, Description: "Outlet management"},
		{RoleName: models.RoleSalesperson, Description: "Point-of-sale operations"},
		{RoleName: models.RoleFactoryDistributor, Description: "Production and distribution"},
		{RoleName: models.RoleCustomer, Description: "Pickup orders"},
	}
	for _, r := range roles {
		err := db.Where(models.Role{RoleName: r.RoleName}).FirstOrCreate(&r).Error
		if err != nil {
			return err
		}
	}
	return nil
}

package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentTarget = errors.New("payment must reference exactly one of sale or customer order")

// Role names. Flat set, no hierarchy.
const (
	RoleAdmin              = "ADMIN"
	RoleManager            = "MANAGER"
	RoleSalesperson        = "SALESPERSON"
	RoleFactoryDistributor = "FACTORY_DISTRIBUTOR"
	RoleCustomer           = "CUSTOMER"
)

// Measurement types for products.
const (
	MeasurementPcs   = "PCS"
	MeasurementKg    = "KG"
	MeasurementBox   = "BOX"
	MeasurementLitre = "LITRE"
)

// Customer order statuses.
const (
	OrderPending        = "PENDING"
	OrderPreparing      = "PREPARING"
	OrderReadyForPickup = "READY_FOR_PICKUP"
	OrderCompleted      = "COMPLETED"
	OrderCancelled      = "CANCELLED"
	OrderDispatched     = "DISPATCHED"
)

// Employment statuses.
const (
	EmploymentActive     = "ACTIVE"
	EmploymentOnLeave    = "ON_LEAVE"
	EmploymentTerminated = "TERMINATED"
	EmploymentResigned   = "RESIGNED"
)

// Payment methods and statuses.
const (
	PaymentCash           = "CASH"
	PaymentCard           = "CARD"
	PaymentOnlineTransfer = "ONLINE_TRANSFER"

	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Sale statuses.
const (
	SaleCompleted = "COMPLETED"
	SaleRefunded  = "REFUNDED"
)

// Wastage reasons.
const (
	WastageExpiredAutomatic  = "EXPIRED_AUTOMATIC"
	WastageDamagedInStore    = "DAMAGED_IN_STORE"
	WastageProductionFailure = "PRODUCTION_FAILURE"
	WastageOther             = "OTHER"
)

// Role - What a user is allowed to be
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"uniqueIndex;size:50" json:"role_name"`
	Description string `json:"description"`
}

// User - The login identity behind every employee and customer
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Email        *string   `gorm:"uniqueIndex;size:100" json:"email"`
	RoleID       uint      `json:"role_id"`
	Role         Role      `json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The catalog definition, distinct from the physical batches
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductName     string          `gorm:"size:100" json:"product_name"`
	Description     string          `json:"description"`
	Category        string          `gorm:"size:50" json:"category"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(10,2)" json:"base_price"`
	ShelfLifeDays   int             `json:"shelf_life_days"`
	MeasurementType string          `gorm:"size:20" json:"measurement_type"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
}

// Batch - A single production run with its own expiry date
type Batch struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BatchNo          string    `gorm:"uniqueIndex;size:50" json:"batch_no"`
	ProductID        uint      `json:"product_id"`
	Product          Product   `json:"product"`
	QuantityProduced int       `json:"quantity_produced"`
	ManufacturedDate time.Time `gorm:"type:date" json:"manufactured_date"`
	ExpiryDate       time.Time `gorm:"type:date" json:"expiry_date"`
}

// Outlet - A physical sales location with its own stock ledger
type Outlet struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OutletName  string `gorm:"size:100" json:"outlet_name"`
	Location    string `json:"location"`
	ContactNo   string `gorm:"size:20" json:"contact_no"`
	OpeningTime string `gorm:"size:10" json:"opening_time"`
	ClosingTime string `gorm:"size:10" json:"closing_time"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// OutletStock - How much of a batch an outlet currently holds.
// One row per (outlet, batch) pair; current_quantity never goes below zero.
type OutletStock struct {
	ID                uint      `gorm:"primaryKey" json:"stock_id"`
	OutletID          uint      `gorm:"uniqueIndex:idx_outlet_batch" json:"outlet_id"`
	Outlet            Outlet    `json:"-"`
	BatchID           uint      `gorm:"uniqueIndex:idx_outlet_batch" json:"batch"`
	Batch             Batch     `json:"-"`
	CurrentQuantity   int       `gorm:"default:0" json:"current_quantity"`
	MinimumStockLevel int       `gorm:"default:10" json:"minimum_stock_level"`
	LastUpdated       time.Time `json:"last_updated"`
	Status            string    `gorm:"size:255" json:"status"`
}

// Employee - Staff profile, one per user
type Employee struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `json:"user_id"`
	User             User      `json:"-"`
	FirstName        string    `gorm:"size:50" json:"first_name"`
	LastName         string    `gorm:"size:50" json:"last_name"`
	NIC              string    `gorm:"uniqueIndex;size:20" json:"nic"`
	ContactNo        string    `gorm:"size:20" json:"contact_no"`
	HireDate         time.Time `gorm:"type:date" json:"hire_date"`
	EmploymentStatus string    `gorm:"size:20;default:ACTIVE" json:"employment_status"`
	OutletID         *uint     `json:"outlet_id"`
}

// Customer - Buyer profile, one per user
type Customer struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `json:"user_id"`
	User          User   `json:"-"`
	FirstName     string `gorm:"size:50" json:"first_name"`
	LastName      string `gorm:"size:50" json:"last_name"`
	ContactNo     string `gorm:"size:20" json:"contact_no"`
	Address       string `json:"address"`
	LoyaltyPoints int    `gorm:"default:0" json:"loyalty_points"`
}

// CustomerOrder - A pickup order placed ahead of time
type CustomerOrder struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	CustomerID          uint                `json:"customer_id"`
	Customer            Customer            `json:"-"`
	OutletID            uint                `json:"outlet_id"`
	Outlet              Outlet              `json:"-"`
	OrderDate           time.Time           `json:"order_date"`
	PickupDate          time.Time           `gorm:"type:date" json:"pickup_date"`
	Status              string              `gorm:"size:20;default:PENDING" json:"status"`
	TotalAmount         decimal.Decimal     `gorm:"type:decimal(10,2)" json:"total_amount"`
	SpecialInstructions string              `json:"special_instructions"`
	Items               []CustomerOrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// CustomerOrderItem - One product line on an order, price locked at order time
type CustomerOrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
}

// Sale - A completed point-of-sale transaction
type Sale struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	BillNo         string          `gorm:"uniqueIndex;size:50" json:"bill_no"`
	OutletID       uint            `json:"outlet_id"`
	Outlet         Outlet          `json:"-"`
	EmployeeID     *uint           `json:"employee_id"`
	CustomerID     *uint           `json:"customer_id"`
	SaleDate       time.Time       `json:"sale_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"net_amount"`
	Status         string          `gorm:"size:20;default:COMPLETED" json:"status"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem - One batch depleted by a sale. References the batch, not the
// product, so expiry-ordered depletion stays traceable after the fact.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `json:"sale_id"`
	BatchID   uint            `json:"batch_id"`
	Batch     Batch           `json:"batch"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
}

// Payment - Linked to exactly one of a sale or a customer order
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SaleID          *uint           `json:"sale_id"`
	CustomerOrderID *uint           `json:"customer_order_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	PaymentMethod   string          `gorm:"size:20" json:"payment_method"`
	PaymentStatus   string          `gorm:"size:20;default:PENDING" json:"payment_status"`
	ReferenceNo     string          `gorm:"size:100" json:"reference_no"`
	PaymentDate     time.Time       `json:"payment_date"`
}

// BeforeCreate rejects payments that reference both a sale and an order,
// or neither.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if (p.SaleID == nil) == (p.CustomerOrderID == nil) {
		return ErrPaymentTarget
	}
	return nil
}

// Wastage - Stock removed from an outlet for a recorded reason
type Wastage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OutletID   uint      `json:"outlet_id"`
	BatchID    uint      `json:"batch_id"`
	Quantity   int       `json:"quantity"`
	Reason     string    `gorm:"size:50" json:"reason"`
	EmployeeID *uint     `json:"recorded_by_employee_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes"`
}

// ValidMeasurementType reports whether m is one of the known units.
func ValidMeasurementType(m string) bool {
	switch m {
	case MeasurementPcs, MeasurementKg, MeasurementBox, MeasurementLitre:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOnlineTransfer:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is a known customer order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReadyForPickup,
		OrderCompleted, OrderCancelled, OrderDispatched:
		return true
	}
	return false
}

// ValidWastageReason reports whether r is a known wastage reason.
func ValidWastageReason(r string) bool {
	switch r {
	case WastageExpiredAutomatic, WastageDamagedInStore,
		WastageProductionFailure, WastageOther:
		return true
	}
	return false
}

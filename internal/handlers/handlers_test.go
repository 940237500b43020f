package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-bakery-pos/internal/auth"
	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest gives each test its own in-memory database behind the
// package-global handle the handlers use, plus the real router with the
// real middleware chain.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.Init("handler-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRoles(db))

	database.DB = db
	return SetupRouter("http://localhost:5173"), db
}

func createUser(t *testing.T, db *gorm.DB, username, password, roleName string) models.User {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where("role_name = ?", roleName).First(&role).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	email := username + "@bakery.test"
	user := models.User{
		Username:     username,
		Email:        &email,
		PasswordHash: string(hashed),
		RoleID:       role.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	user.Role = role
	return user
}

func createEmployee(t *testing.T, db *gorm.DB, user models.User, nic string) models.Employee {
	t.Helper()
	emp := models.Employee{
		UserID:           user.ID,
		FirstName:        "Test",
		LastName:         "Employee",
		NIC:              nic,
		HireDate:         time.Now(),
		EmploymentStatus: models.EmploymentActive,
	}
	require.NoError(t, db.Create(&emp).Error)
	return emp
}

func createCustomerProfile(t *testing.T, db *gorm.DB, user models.User) models.Customer {
	t.Helper()
	cust := models.Customer{
		UserID:    user.ID,
		FirstName: "Test",
		LastName:  "Customer",
	}
	require.NoError(t, db.Create(&cust).Error)
	return cust
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	pair, err := auth.GenerateTokenPair(user.ID, user.Role.RoleName)
	require.NoError(t, err)
	return pair.AccessToken
}

func perform(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		ProductName:     name,
		Category:        "Bread",
		BasePrice:       decimal.RequireFromString(price),
		ShelfLifeDays:   5,
		MeasurementType: models.MeasurementPcs,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedBatch(t *testing.T, db *gorm.DB, product models.Product, batchNo, mfd, exp string, qty int) models.Batch {
	t.Helper()
	b := models.Batch{
		BatchNo:          batchNo,
		ProductID:        product.ID,
		QuantityProduced: qty,
		ManufacturedDate: testDate(t, mfd),
		ExpiryDate:       testDate(t, exp),
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func seedOutlet(t *testing.T, db *gorm.DB, name string) models.Outlet {
	t.Helper()
	o := models.Outlet{OutletName: name, Location: "Main Street", IsActive: true}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func seedStock(t *testing.T, db *gorm.DB, outlet models.Outlet, batch models.Batch, qty int) models.OutletStock {
	t.Helper()
	s := models.OutletStock{
		OutletID:        outlet.ID,
		BatchID:         batch.ID,
		CurrentQuantity: qty,
		LastUpdated:     time.Now(),
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

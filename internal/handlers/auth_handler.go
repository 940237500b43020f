package handlers

import (
	"net/http"
	"time"

	"go-bakery-pos/internal/auth"
	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token pair. Unknown username and
// wrong password get the same response so the endpoint does not leak which
// usernames exist.
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	err := database.DB.Preload("Role").Where("username = ?", input.Username).First(&user).Error
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Role.RoleName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": gin.H{
			"username": user.Username,
			"role":     user.Role.RoleName,
		},
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a new pair. The identity
// claim is resolved against the users table again, so a deactivated user
// cannot keep refreshing.
func Refresh(c *gin.Context) {
	var input RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	claims, err := auth.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	var user models.User
	err = database.DB.Preload("Role").First(&user, claims.UserID).Error
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Role.RoleName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

type RegisterEmployeeRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	NIC       string `json:"nic" binding:"required"`
	ContactNo string `json:"contact_no"`
	HireDate  string `json:"hire_date" binding:"required"`
}

// RegisterEmployee creates a User and an Employee profile in one
// transaction. Admin only (enforced on the route). A taken username is a
// conflict and leaves no rows behind.
func RegisterEmployee(c *gin.Context) {
	var input RegisterEmployeeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	hireDate, err := time.Parse("2006-01-02", input.HireDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hire_date must be YYYY-MM-DD"})
		return
	}

	roleName := input.Role
	if roleName == "" {
		roleName = models.RoleSalesperson
	}

	role := models.Role{RoleName: roleName}
	if err := database.DB.Where(models.Role{RoleName: roleName}).FirstOrCreate(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// User and Employee are created together or not at all.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:     input.Username,
			Email:        &input.Email,
			PasswordHash: string(hashed),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		employee := models.Employee{
			UserID:           user.ID,
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			NIC:              input.NIC,
			ContactNo:        input.ContactNo,
			HireDate:         hireDate,
			EmploymentStatus: models.EmploymentActive,
		}
		return tx.Create(&employee).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username, email or NIC already in use"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("employee registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register employee"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Employee created successfully"})
}

type RegisterCustomerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	ContactNo string `json:"contact_no"`
	Address   string `json:"address"`
}

// RegisterCustomer is the open self-signup: creates a User with the
// CUSTOMER role and a Customer profile atomically.
func RegisterCustomer(c *gin.Context) {
	var input RegisterCustomerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	var role models.Role
	if err := database.DB.Where("role_name = ?", models.RoleCustomer).First(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Customer role configuration missing"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:     input.Username,
			Email:        &input.Email,
			PasswordHash: string(hashed),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		customer := models.Customer{
			UserID:    user.ID,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			ContactNo: input.ContactNo,
			Address:   input.Address,
		}
		return tx.Create(&customer).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("customer registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register customer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

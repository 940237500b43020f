package handlers

import (
	"time"

	"go-bakery-pos/internal/middleware"
	"go-bakery-pos/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires the full HTTP surface. Everything except login,
// refresh and customer signup sits behind the bearer-token middleware;
// guarded operations add an exact-role check on top.
func SetupRouter(corsOrigin string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	r.POST("/auth/login", Login)
	r.POST("/auth/refresh", Refresh)
	r.POST("/auth/register-customer", RegisterCustomer)

	api := r.Group("/")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/products", GetProducts)
		api.POST("/products/add", AddProduct)

		api.POST("/factory/create-batch", CreateBatch)
		api.GET("/factory/stats", GetFactoryStats)

		api.GET("/stock/:outlet_id", GetOutletStock)
		api.GET("/orders", ListOrders)

		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/auth/register-employee", RegisterEmployee)
			admin.PUT("/products/:id", UpdateProduct)
			admin.DELETE("/products/:id", DeleteProduct)
		}

		factory := api.Group("/")
		factory.Use(middleware.RequireRole(models.RoleFactoryDistributor))
		{
			factory.POST("/factory/distribute", DistributeStock)
		}

		sales := api.Group("/")
		sales.Use(middleware.RequireRole(models.RoleSalesperson))
		{
			sales.POST("/sales/checkout", ProcessSale)
			sales.PUT("/orders/:id/status", UpdateOrderStatus)
			sales.POST("/wastage", RecordWastage)
		}

		customer := api.Group("/")
		customer.Use(middleware.RequireRole(models.RoleCustomer))
		{
			customer.POST("/orders", PlaceOrder)
		}
	}

	return r
}

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"atelier-system/config"
	"atelier-system/internal/database"
	"atelier-system/internal/handlers"
	"atelier-system/internal/middleware"
	"atelier-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authHandler := handlers.NewAuthHandler(db, tokens)
	insumHandler := handlers.NewInsumHandler(db, redisClient)
	supplierHandler := handlers.NewSupplierHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	productHandler := handlers.NewProductHandler(db, redisClient)
	orderHandler := handlers.NewOrderHandler(db)

	r := gin.Default()

	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// --- Public routes ---
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --- Protected routes ---
	protected := r.Group("/")
	protected.Use(middleware.JWTAuth(tokens))
	{
		protected.GET("/auth/profile", authHandler.Profile)

		insums := protected.Group("/insums")
		{
			insums.POST("", insumHandler.CreateInsum)
			insums.GET("", insumHandler.ListInsums)
			insums.GET("/:id", insumHandler.GetInsum)
			insums.PUT("/:id", insumHandler.UpdateInsum)
			insums.POST("/:id/adjust", insumHandler.AdjustInsum)
			insums.DELETE("/:id", insumHandler.DeleteInsum)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.POST("", supplierHandler.CreateSupplier)
			suppliers.GET("", supplierHandler.ListSuppliers)
			suppliers.GET("/:id", supplierHandler.GetSupplier)
			suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
			suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("", customerHandler.ListCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		products := protected.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		orders := protected.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}

	addr := ":" + cfg.Server.Port
	zlog.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		zlog.Fatal().Err(err).Msg("failed to start server")
	}
}

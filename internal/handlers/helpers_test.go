package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"atelier-system/internal/database/models"
	"atelier-system/internal/middleware"
	"atelier-system/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Supplier{},
		&models.Insum{},
		&models.Product{},
		&models.ProductComposition{},
		&models.Order{},
		&models.OrderItem{},
	))

	return db
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	authHandler := NewAuthHandler(db, tokens)
	insumHandler := NewInsumHandler(db, nil)
	supplierHandler := NewSupplierHandler(db)
	customerHandler := NewCustomerHandler(db)
	productHandler := NewProductHandler(db, nil)
	orderHandler := NewOrderHandler(db)

	r := gin.New()

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

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

	return &testEnv{router: r, db: db, tokens: tokens}
}

// authToken registers a user directly and returns a bearer token for it.
func (e *testEnv) authToken(t *testing.T) string {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        "tester@example.com",
		PasswordHash: "x",
		ProfileType:  models.ProfileOperacional,
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, _, err := e.tokens.GenerateToken(user.ID, user.Email, string(user.ProfileType))
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if dest != nil {
		require.NoError(t, json.Unmarshal(resp.Data, dest))
	}
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}

// assertDecimal compares numerically rather than byte for byte: sqlite's
// NUMERIC affinity strips trailing zeros from decimal columns, so "12.50"
// can come back as "12.5" depending on the backend.
func assertDecimal(t *testing.T, want, got string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	g, err := decimal.NewFromString(got)
	require.NoError(t, err, "not a decimal: %q", got)
	require.Truef(t, w.Equal(g), "expected %s, got %s", want, got)
}

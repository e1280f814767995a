package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
)

type orderPayload struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Customer    *struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
	} `json:"customer"`
	Subtotal         string `json:"subtotal"`
	ShippingCost     string `json:"shipping_cost"`
	DiscountValue    string `json:"discount_value"`
	TotalValue       string `json:"total_value"`
	PaymentCondition string `json:"payment_condition"`
	PaymentStatus    string `json:"payment_status"`
	Items            []struct {
		Quantity  int32  `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Product   *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"product"`
	} `json:"items"`
}

func (e *testEnv) createCustomer(t *testing.T, token, fullName string) string {
	t.Helper()

	slug := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
	w := e.request(t, http.MethodPost, "/customers", token, gin.H{
		"fullName":     fullName,
		"cpfCnpj":      fmt.Sprintf("%011d", len(slug)*987654321%100000000000),
		"whatsapp":     "+5511999990000",
		"email":        slug + "@example.com",
		"cep":          "01310-100",
		"street":       "Avenida Paulista",
		"number":       "1000",
		"neighborhood": "Bela Vista",
		"city":         "Sao Paulo",
		"state":        "SP",
	})
	mustStatus(t, w, http.StatusCreated)

	var customer struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &customer)
	return customer.ID
}

func (e *testEnv) createOrder(t *testing.T, token, customerID string, body gin.H) orderPayload {
	t.Helper()

	payload := gin.H{
		"customerId":       customerID,
		"dueDate":          "2026-09-15",
		"paymentCondition": "PIX_100",
	}
	for k, v := range body {
		payload[k] = v
	}

	w := e.request(t, http.MethodPost, "/orders", token, payload)
	mustStatus(t, w, http.StatusCreated)

	var order orderPayload
	decodeData(t, w, &order)
	return order
}

func TestCreateOrderTotalsAndStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	hoodie := env.createProduct(t, token, "Hoodie", 25, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 3},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")

	order := env.createOrder(t, token, customerID, gin.H{
		"shippingCost":  5,
		"discountValue": 3,
		"items": []gin.H{
			{"productId": shirt.ID, "quantity": 2},
			{"productId": hoodie.ID, "quantity": 1},
		},
	})

	// 15*2 + 25*1 = 55; 55 + 5 shipping - 3 discount = 57.
	assertDecimal(t, "55.00", order.Subtotal)
	assertDecimal(t, "5.00", order.ShippingCost)
	assertDecimal(t, "3.00", order.DiscountValue)
	assertDecimal(t, "57.00", order.TotalValue)

	// Creation always starts the order awaiting payment, whatever the
	// client might claim.
	assert.Equal(t, "PAGAMENTO_PENDENTE", order.Status)
	assert.Equal(t, "AGUARDANDO_PAGAMENTO", order.PaymentStatus)
	assert.Equal(t, "PIX_100", order.PaymentCondition)

	require.NotNil(t, order.Customer)
	assert.Equal(t, "Joana Lima", order.Customer.FullName)

	require.Len(t, order.Items, 2)
}

func TestCreateOrderNumberFormatAndSequence(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")

	items := gin.H{"items": []gin.H{{"productId": shirt.ID, "quantity": 1}}}

	first := env.createOrder(t, token, customerID, items)
	second := env.createOrder(t, token, customerID, items)
	third := env.createOrder(t, token, customerID, items)

	require.Regexp(t, `^PROD-\d{8}\d{4}$`, first.OrderNumber)

	prefix := first.OrderNumber[:len("PROD-01012026")]
	assert.Equal(t, prefix+"0001", first.OrderNumber)
	assert.Equal(t, prefix+"0002", second.OrderNumber)
	assert.Equal(t, prefix+"0003", third.OrderNumber)
}

// A rival writer grabbing the same number between the read and the insert
// must trip the unique index; the create has to replay and still answer 201.
func TestCreateOrderRetriesAfterNumberCollision(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")

	// On the first attempt only, insert a rival order carrying the number
	// the handler just computed, right before the handler's own insert.
	rivalID := uuid.New()
	attempts := 0
	err := env.db.Callback().Create().Before("gorm:create").Register("order_number_rival", func(tx *gorm.DB) {
		order, ok := tx.Statement.Dest.(*models.Order)
		if !ok || order.ID == rivalID {
			return
		}
		attempts++
		if attempts > 1 {
			return
		}
		rival := models.Order{
			ID:               rivalID,
			OrderNumber:      order.OrderNumber,
			CustomerID:       order.CustomerID,
			Status:           models.StatusPagamentoPendente,
			DueDate:          order.DueDate,
			Subtotal:         "0.00",
			ShippingCost:     "0.00",
			DiscountValue:    "0.00",
			TotalValue:       "0.00",
			PaymentCondition: models.PaymentPix100,
			PaymentStatus:    models.PaymentAwaiting,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			t.Errorf("rival insert failed: %v", err)
		}
	})
	require.NoError(t, err)
	defer env.db.Callback().Create().Remove("order_number_rival")

	order := env.createOrder(t, token, customerID, gin.H{
		"items": []gin.H{{"productId": shirt.ID, "quantity": 1}},
	})

	// The losing attempt rolled back whole (taking the rival row with it)
	// and the replay landed the first number of the day cleanly.
	assert.Equal(t, 2, attempts)
	assert.True(t, strings.HasSuffix(order.OrderNumber, "0001"), "got %s", order.OrderNumber)

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderKeepsUnitPriceSnapshot(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")

	order := env.createOrder(t, token, customerID, gin.H{
		"items": []gin.H{{"productId": shirt.ID, "quantity": 1}},
	})

	// Reprice the catalog after the order exists.
	w := env.request(t, http.MethodPut, "/products/"+shirt.ID, token, gin.H{
		"salePrice": 99,
		"composition": []gin.H{
			{"insumId": cotton.ID, "quantityUsed": 1},
		},
	})
	mustStatus(t, w, http.StatusOK)

	w = env.request(t, http.MethodGet, "/orders/"+order.ID, token, nil)
	mustStatus(t, w, http.StatusOK)

	var fetched orderPayload
	decodeData(t, w, &fetched)
	require.Len(t, fetched.Items, 1)
	assertDecimal(t, "15.00", fetched.Items[0].UnitPrice)
	assertDecimal(t, "15.00", fetched.Subtotal)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})

	missing := uuid.NewString()
	w := env.request(t, http.MethodPost, "/orders", token, gin.H{
		"customerId":       missing,
		"dueDate":          "2026-09-15",
		"paymentCondition": "PIX_100",
		"items":            []gin.H{{"productId": shirt.ID, "quantity": 1}},
	})
	mustStatus(t, w, http.StatusNotFound)
	assert.Contains(t, responseMessage(t, w), missing)
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	customerID := env.createCustomer(t, token, "Joana Lima")
	missing := uuid.NewString()

	w := env.request(t, http.MethodPost, "/orders", token, gin.H{
		"customerId":       customerID,
		"dueDate":          "2026-09-15",
		"paymentCondition": "PIX_100",
		"items":            []gin.H{{"productId": missing, "quantity": 1}},
	})
	mustStatus(t, w, http.StatusNotFound)
	assert.Contains(t, responseMessage(t, w), missing)

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderRejectsBadPaymentCondition(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	w := env.request(t, http.MethodPost, "/orders", token, gin.H{
		"customerId":       uuid.NewString(),
		"dueDate":          "2026-09-15",
		"paymentCondition": "BOLETO",
		"items":            []gin.H{{"productId": uuid.NewString(), "quantity": 1}},
	})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")
	order := env.createOrder(t, token, customerID, gin.H{
		"items": []gin.H{{"productId": shirt.ID, "quantity": 1}},
	})

	w := env.request(t, http.MethodPatch, "/orders/"+order.ID+"/status", token, gin.H{
		"status":         "EM_PRODUCAO_CORTE",
		"payment_status": "PAGO_PARCIALMENTE",
	})
	mustStatus(t, w, http.StatusOK)

	var updated orderPayload
	decodeData(t, w, &updated)
	assert.Equal(t, "EM_PRODUCAO_CORTE", updated.Status)
	assert.Equal(t, "PAGO_PARCIALMENTE", updated.PaymentStatus)

	w = env.request(t, http.MethodPatch, "/orders/"+order.ID+"/status", token, gin.H{
		"status": "NOT_A_STATUS",
	})
	mustStatus(t, w, http.StatusBadRequest)

	w = env.request(t, http.MethodPatch, "/orders/"+order.ID+"/status", token, gin.H{})
	mustStatus(t, w, http.StatusBadRequest)

	w = env.request(t, http.MethodPatch, "/orders/"+uuid.NewString()+"/status", token, gin.H{
		"status": "ENVIADO",
	})
	mustStatus(t, w, http.StatusNotFound)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")
	order := env.createOrder(t, token, customerID, gin.H{
		"items": []gin.H{{"productId": shirt.ID, "quantity": 1}},
	})

	mustStatus(t, env.request(t, http.MethodDelete, "/orders/"+order.ID, token, nil), http.StatusOK)
	mustStatus(t, env.request(t, http.MethodGet, "/orders/"+order.ID, token, nil), http.StatusNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	token := env.authToken(t)

	cotton := env.createInsum(t, token, "Cotton Fabric", 100, 5)
	shirt := env.createProduct(t, token, "Basic T-Shirt", 15, []gin.H{
		{"insumId": cotton.ID, "quantityUsed": 1},
	})
	customerID := env.createCustomer(t, token, "Joana Lima")

	items := gin.H{"items": []gin.H{{"productId": shirt.ID, "quantity": 1}}}
	env.createOrder(t, token, customerID, items)
	env.createOrder(t, token, customerID, items)

	w := env.request(t, http.MethodGet, "/orders", token, nil)
	mustStatus(t, w, http.StatusOK)

	var list []orderPayload
	decodeData(t, w, &list)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Customer)
	assert.Equal(t, "Joana Lima", list[0].Customer.FullName)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
)

// orderNumberRetries bounds how often a create is replayed after losing the
// order-number race to a concurrent writer.
const orderNumberRetries = 3

type OrderHandler struct {
	db *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type CreateOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	Quantity  int32   `json:"quantity" binding:"required,min=1"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type CreateOrderRequest struct {
	CustomerID       string                   `json:"customerId" binding:"required,uuid"`
	DueDate          string                   `json:"dueDate" binding:"required"`
	DeliveryType     *string                  `json:"deliveryType,omitempty"`
	ShippingCost     float64                  `json:"shippingCost" binding:"omitempty,gte=0"`
	DiscountValue    float64                  `json:"discountValue" binding:"omitempty,gte=0"`
	CouponCode       *string                  `json:"couponCode,omitempty"`
	PaymentCondition string                   `json:"paymentCondition" binding:"required"`
	Items            []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	if !models.ValidPaymentCondition(req.PaymentCondition) {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid payment condition"))
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("dueDate must be an ISO date"))
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid customer ID"))
		return
	}

	var orderID uuid.UUID
	var txErr error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		orderID, txErr = h.createOrderOnce(customerID, dueDate, &req)
		if txErr == nil || !errors.Is(txErr, gorm.ErrDuplicatedKey) {
			break
		}
		zlog.Warn().Int("attempt", attempt+1).Msg("order number collision, retrying")
	}
	if txErr != nil {
		var nf *notFoundError
		if errors.As(txErr, &nf) {
			c.JSON(http.StatusNotFound, errorResponse(nf.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create order"))
		return
	}

	order, err := h.fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load created order"))
		return
	}

	zlog.Info().Str("order_number", order.OrderNumber).Msg("order created")
	c.JSON(http.StatusCreated, successResponse("Order created successfully", order))
}

// createOrderOnce runs the whole create sequence in one transaction:
// resolve customer, snapshot per-item prices, total, number, persist. A
// duplicated order_number bubbles up so the caller can replay everything.
func (h *OrderHandler) createOrderOnce(customerID uuid.UUID, dueDate time.Time, req *CreateOrderRequest) (uuid.UUID, error) {
	orderID := uuid.New()

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
			return notFoundf("Customer with ID %s not found", customerID)
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, itemReq := range req.Items {
			productID, err := uuid.Parse(itemReq.ProductID)
			if err != nil {
				return notFoundf("Product with ID %s not found", itemReq.ProductID)
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return notFoundf("Product with ID %s not found", itemReq.ProductID)
			}

			// Price snapshot: the catalog price is copied now and never
			// re-read for this order.
			unitPrice, _ := decimal.NewFromString(product.SalePrice)
			subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt32(itemReq.Quantity)))

			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: product.ID,
				Quantity:  itemReq.Quantity,
				UnitPrice: unitPrice.StringFixed(2),
				Color:     itemReq.Color,
				Size:      itemReq.Size,
				Notes:     itemReq.Notes,
			})
		}

		shipping := decimal.NewFromFloat(req.ShippingCost)
		discount := decimal.NewFromFloat(req.DiscountValue)
		couponDiscount := decimal.Zero // coupons are a stub for now
		totalValue := subtotal.Add(shipping).Sub(discount).Sub(couponDiscount)

		orderNumber, err := generateOrderNumber(tx, time.Now())
		if err != nil {
			return err
		}

		order := models.Order{
			ID:               orderID,
			OrderNumber:      orderNumber,
			CustomerID:       customer.ID,
			Status:           models.StatusPagamentoPendente,
			OrderDate:        time.Now(),
			DueDate:          dueDate,
			DeliveryType:     req.DeliveryType,
			Subtotal:         subtotal.StringFixed(2),
			ShippingCost:     shipping.StringFixed(2),
			DiscountValue:    discount.StringFixed(2),
			TotalValue:       totalValue.StringFixed(2),
			CouponCode:       req.CouponCode,
			PaymentCondition: models.PaymentCondition(req.PaymentCondition),
			PaymentStatus:    models.PaymentAwaiting,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Create(&items).Error
	})

	return orderID, txErr
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var orders []models.Order
	err := h.db.Preload("Customer").Preload("Items.Product").
		Order("LENGTH(order_number) DESC, order_number DESC").Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list orders"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Orders retrieved successfully", orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	order, err := h.fetchOrder(id)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Order with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", order))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		c.JSON(http.StatusBadRequest, errorResponse("Nothing to update"))
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid order status"))
			return
		}
		updates["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*req.PaymentStatus) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid payment status"))
			return
		}
		updates["payment_status"] = *req.PaymentStatus
	}

	result := h.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update order"))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Order with ID %s not found", id)))
		return
	}

	order, err := h.fetchOrder(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load updated order"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Order updated successfully", order))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var deleted int64
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		deleted = result.RowsAffected
		return result.Error
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete order"))
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Order with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Order deleted successfully", nil))
}

func (h *OrderHandler) fetchOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := h.db.Preload("Customer").Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

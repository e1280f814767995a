package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusAprovacaoPendente        OrderStatus = "APROVACAO_PENDENTE"
	StatusPagamentoPendente        OrderStatus = "PAGAMENTO_PENDENTE"
	StatusAjusteSolicitado         OrderStatus = "AJUSTE_SOLICITADO"
	StatusEmProducaoCorte          OrderStatus = "EM_PRODUCAO_CORTE"
	StatusEmProducaoEstamparia     OrderStatus = "EM_PRODUCAO_ESTAMPARIA"
	StatusEmProducaoConfeccao      OrderStatus = "EM_PRODUCAO_CONFECCAO"
	StatusProntoParaEnvio          OrderStatus = "PRONTO_PARA_ENVIO"
	StatusEnviado                  OrderStatus = "ENVIADO"
	StatusAguardandoPagamentoFinal OrderStatus = "AGUARDANDO_PAGAMENTO_FINAL"
)

type PaymentCondition string

const (
	PaymentPix100        PaymentCondition = "PIX_100"
	PaymentPix5050       PaymentCondition = "PIX_50_50"
	PaymentCartaoCredito PaymentCondition = "CARTAO_CREDITO_100"
)

type PaymentStatus string

const (
	PaymentAwaiting      PaymentStatus = "AGUARDANDO_PAGAMENTO"
	PaymentPaidPartially PaymentStatus = "PAGO_PARCIALMENTE"
	PaymentPaidFully     PaymentStatus = "PAGO_TOTALMENTE"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusAprovacaoPendente, StatusPagamentoPendente, StatusAjusteSolicitado,
		StatusEmProducaoCorte, StatusEmProducaoEstamparia, StatusEmProducaoConfeccao,
		StatusProntoParaEnvio, StatusEnviado, StatusAguardandoPagamentoFinal:
		return true
	}
	return false
}

func ValidPaymentCondition(s string) bool {
	switch PaymentCondition(s) {
	case PaymentPix100, PaymentPix5050, PaymentCartaoCredito:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentAwaiting, PaymentPaidPartially, PaymentPaidFully:
		return true
	}
	return false
}

type Customer struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string     `gorm:"size:255;not null" json:"fullName"`
	CpfCnpj      string     `gorm:"size:18;uniqueIndex;not null" json:"cpfCnpj"`
	Whatsapp     string     `gorm:"size:20;not null" json:"whatsapp"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Gender       *string    `gorm:"size:20" json:"gender,omitempty"`
	BirthDate    *time.Time `gorm:"type:date" json:"birthDate,omitempty"`
	Origin       *string    `gorm:"size:255" json:"origin,omitempty"`
	Cep          string     `gorm:"size:9;not null" json:"cep"`
	Street       string     `gorm:"size:255;not null" json:"street"`
	Number       string     `gorm:"size:50;not null" json:"number"`
	Complement   *string    `gorm:"size:100" json:"complement,omitempty"`
	Neighborhood string     `gorm:"size:100;not null" json:"neighborhood"`
	City         string     `gorm:"size:100;not null" json:"city"`
	State        string     `gorm:"size:2;not null" json:"state"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Order struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber      string           `gorm:"column:order_number;size:32;uniqueIndex;not null" json:"order_number"`
	CustomerID       uuid.UUID        `gorm:"type:uuid;index;not null" json:"-"`
	Customer         *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status           OrderStatus      `gorm:"type:varchar(50);not null" json:"status"`
	OrderDate        time.Time        `gorm:"autoCreateTime" json:"order_date"`
	DueDate          time.Time        `gorm:"not null" json:"due_date"`
	DeliveryType     *string          `gorm:"size:50" json:"delivery_type,omitempty"`
	Subtotal         string           `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost     string           `gorm:"type:decimal(10,2);not null;default:'0.00'" json:"shipping_cost"`
	DiscountValue    string           `gorm:"type:decimal(10,2);not null;default:'0.00'" json:"discount_value"`
	TotalValue       string           `gorm:"type:decimal(10,2);not null" json:"total_value"`
	CouponCode       *string          `gorm:"size:50" json:"coupon_code,omitempty"`
	PaymentCondition PaymentCondition `gorm:"type:varchar(50)" json:"payment_condition"`
	PaymentStatus    PaymentStatus    `gorm:"type:varchar(50);default:'AGUARDANDO_PAGAMENTO'" json:"payment_status"`
	Items            []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        *time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        *time.Time       `gorm:"autoUpdateTime" json:"-"`
}

// OrderItem.UnitPrice is a snapshot of the product's sale price taken when
// the order is created; later catalog price changes never touch it.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	UnitPrice string    `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unit_price"`
	Color     *string   `gorm:"size:50" json:"color,omitempty"`
	Size      *string   `gorm:"size:50" json:"size,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
}

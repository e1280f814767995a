package models

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Cnpj      string     `gorm:"size:18;uniqueIndex;not null" json:"cnpj"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone     string     `gorm:"size:20;not null" json:"phone"`
	Address   *string    `gorm:"size:255" json:"address,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Insum is a raw material consumed by product compositions. Stock and
// AverageCost carry fixed-point decimals as strings.
type Insum struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"size:255;uniqueIndex;not null" json:"name"`
	UnitOfMeasure string     `gorm:"size:50;not null" json:"unitOfMeasure"`
	Stock         string     `gorm:"type:decimal(10,2);not null" json:"stock"`
	AverageCost   string     `gorm:"type:decimal(10,2);not null" json:"averageCost"`
	CreatedAt     *time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Product.ProductionCost and Product.ProfitMargin are derived from the
// composition at write time and kept until the next write.
type Product struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string               `gorm:"size:255;uniqueIndex;not null" json:"name"`
	SalePrice      string               `gorm:"type:decimal(10,2);not null" json:"salePrice"`
	ProductionCost string               `gorm:"type:decimal(10,2);not null;default:'0.00'" json:"productionCost"`
	ProfitMargin   string               `gorm:"type:decimal(5,2);not null;default:'0.00'" json:"profitMargin"`
	Composition    []ProductComposition `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"composition"`
	CreatedAt      *time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      *time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

type ProductComposition struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	InsumID      uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	Insum        *Insum    `gorm:"foreignKey:InsumID" json:"insum,omitempty"`
	QuantityUsed string    `gorm:"type:decimal(10,2);not null" json:"quantityUsed"`
}

func (ProductComposition) TableName() string {
	return "product_composition"
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
)

type ProductHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductHandler(db *gorm.DB, redisClient *redis.Client) *ProductHandler {
	return &ProductHandler{db: db, redis: redisClient}
}

type CompositionRequest struct {
	InsumID      string  `json:"insumId" binding:"required,uuid"`
	QuantityUsed float64 `json:"quantityUsed" binding:"required,gt=0"`
}

type CreateProductRequest struct {
	Name        string               `json:"name" binding:"required,min=3,max=255"`
	SalePrice   float64              `json:"salePrice" binding:"required,gt=0"`
	Composition []CompositionRequest `json:"composition" binding:"required,dive"`
}

type UpdateProductRequest struct {
	Name        *string              `json:"name,omitempty" binding:"omitempty,min=3,max=255"`
	SalePrice   *float64             `json:"salePrice,omitempty" binding:"omitempty,gt=0"`
	Composition []CompositionRequest `json:"composition,omitempty" binding:"omitempty,dive"`
}

func (h *ProductHandler) InvalidateProductCaches(c *gin.Context) {
	cacheDel(c.Request.Context(), h.redis, ProductCacheKey)
}

// resolveComposition looks up every referenced insum and builds the rows to
// persist plus the cost lines. A single missing insum aborts the whole
// computation; partial costs are never produced.
func resolveComposition(tx *gorm.DB, productID uuid.UUID, composition []CompositionRequest) ([]models.ProductComposition, []costLine, error) {
	rows := make([]models.ProductComposition, 0, len(composition))
	lines := make([]costLine, 0, len(composition))

	for _, item := range composition {
		insumID, err := uuid.Parse(item.InsumID)
		if err != nil {
			return nil, nil, notFoundf("Insum with ID %s not found", item.InsumID)
		}

		var insum models.Insum
		if err := tx.First(&insum, "id = ?", insumID).Error; err != nil {
			return nil, nil, notFoundf("Insum with ID %s not found", item.InsumID)
		}

		qty := decimal.NewFromFloat(item.QuantityUsed).StringFixed(2)
		rows = append(rows, models.ProductComposition{
			ID:           uuid.New(),
			ProductID:    productID,
			InsumID:      insum.ID,
			QuantityUsed: qty,
		})
		lines = append(lines, costLine{AverageCost: insum.AverageCost, QuantityUsed: qty})
	}

	return rows, lines, nil
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	productID := uuid.New()
	salePrice := decimal.NewFromFloat(req.SalePrice)

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		rows, lines, err := resolveComposition(tx, productID, req.Composition)
		if err != nil {
			return err
		}

		cost := productionCost(lines)
		margin := profitMargin(salePrice, cost)

		product := models.Product{
			ID:             productID,
			Name:           req.Name,
			SalePrice:      salePrice.StringFixed(2),
			ProductionCost: cost.StringFixed(2),
			ProfitMargin:   margin.StringFixed(2),
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		h.writeProductError(c, txErr)
		return
	}

	// The in-memory object does not carry the relation; read back joined.
	product, err := h.fetchProduct(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load created product"))
		return
	}

	h.InvalidateProductCaches(c)
	c.JSON(http.StatusCreated, successResponse("Product created successfully", product))
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var products []models.Product
	if cacheGet(ctx, h.redis, ProductCacheKey, &products) {
		c.JSON(http.StatusOK, successResponse("Products retrieved successfully", products))
		return
	}

	if err := h.db.Preload("Composition.Insum").Order("name asc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list products"))
		return
	}

	cacheSet(ctx, h.redis, ProductCacheKey, products, CacheTTLShort)
	c.JSON(http.StatusOK, successResponse("Products retrieved successfully", products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid product ID"))
		return
	}

	product, err := h.fetchProduct(id)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Product with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Product retrieved successfully", product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid product ID"))
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var existing models.Product
	if err := h.db.First(&existing, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Product with ID %s not found", id)))
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		// Composition is replaced wholesale, never diffed: the old rows go
		// away and the new list is inserted from scratch.
		if err := tx.Delete(&models.ProductComposition{}, "product_id = ?", id).Error; err != nil {
			return err
		}

		rows, lines, err := resolveComposition(tx, id, req.Composition)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		// An absent composition recomputes the cost as zero rather than
		// keeping the previous value. Kept as-is from the original system.
		cost := productionCost(lines)

		salePrice, _ := decimal.NewFromString(existing.SalePrice)
		if req.SalePrice != nil {
			salePrice = decimal.NewFromFloat(*req.SalePrice)
		}
		margin := profitMarginOnUpdate(salePrice, cost)

		updates := map[string]interface{}{
			"sale_price":      salePrice.StringFixed(2),
			"production_cost": cost.StringFixed(2),
			"profit_margin":   margin.StringFixed(2),
		}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		return tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
	})
	if txErr != nil {
		h.writeProductError(c, txErr)
		return
	}

	product, err := h.fetchProduct(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load updated product"))
		return
	}

	h.InvalidateProductCaches(c)
	c.JSON(http.StatusOK, successResponse("Product updated successfully", product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid product ID"))
		return
	}

	var deleted int64
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductComposition{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Product{}, "id = ?", id)
		deleted = result.RowsAffected
		return result.Error
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete product"))
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Product with ID %s not found", id)))
		return
	}

	h.InvalidateProductCaches(c)
	c.JSON(http.StatusOK, successResponse("Product deleted successfully", nil))
}

func (h *ProductHandler) fetchProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := h.db.Preload("Composition.Insum").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (h *ProductHandler) writeProductError(c *gin.Context, err error) {
	var nf *notFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, errorResponse(nf.Error()))
		return
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, errorResponse("Product name already exists"))
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse("Failed to save product"))
}

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

type InsumHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewInsumHandler(db *gorm.DB, redisClient *redis.Client) *InsumHandler {
	return &InsumHandler{db: db, redis: redisClient}
}

type CreateInsumRequest struct {
	Name          string  `json:"name" binding:"required,min=3,max=255"`
	UnitOfMeasure string  `json:"unitOfMeasure" binding:"required"`
	Stock         float64 `json:"stock" binding:"gte=0"`
	AverageCost   float64 `json:"averageCost" binding:"gte=0"`
}

type UpdateInsumRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=3,max=255"`
	UnitOfMeasure *string  `json:"unitOfMeasure,omitempty"`
	Stock         *float64 `json:"stock,omitempty" binding:"omitempty,gte=0"`
	AverageCost   *float64 `json:"averageCost,omitempty" binding:"omitempty,gte=0"`
}

type AdjustInsumRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost float64 `json:"unitCost" binding:"gte=0"`
}

func (h *InsumHandler) InvalidateInsumCaches(c *gin.Context) {
	cacheDel(c.Request.Context(), h.redis, InsumCacheKey)
}

func (h *InsumHandler) CreateInsum(c *gin.Context) {
	var req CreateInsumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	insum := models.Insum{
		ID:            uuid.New(),
		Name:          req.Name,
		UnitOfMeasure: req.UnitOfMeasure,
		Stock:         decimal.NewFromFloat(req.Stock).StringFixed(2),
		AverageCost:   decimal.NewFromFloat(req.AverageCost).StringFixed(2),
	}
	if err := h.db.Create(&insum).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, errorResponse("Insum name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create insum"))
		return
	}

	h.InvalidateInsumCaches(c)
	c.JSON(http.StatusCreated, successResponse("Insum created successfully", insum))
}

func (h *InsumHandler) ListInsums(c *gin.Context) {
	ctx := c.Request.Context()

	var insums []models.Insum
	if cacheGet(ctx, h.redis, InsumCacheKey, &insums) {
		c.JSON(http.StatusOK, successResponse("Insums retrieved successfully", insums))
		return
	}

	if err := h.db.Order("name asc").Find(&insums).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list insums"))
		return
	}

	cacheSet(ctx, h.redis, InsumCacheKey, insums, CacheTTLMedium)
	c.JSON(http.StatusOK, successResponse("Insums retrieved successfully", insums))
}

func (h *InsumHandler) GetInsum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid insum ID"))
		return
	}

	var insum models.Insum
	if err := h.db.First(&insum, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Insum with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Insum retrieved successfully", insum))
}

func (h *InsumHandler) UpdateInsum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid insum ID"))
		return
	}

	var req UpdateInsumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var insum models.Insum
	if err := h.db.First(&insum, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Insum with ID %s not found", id)))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.UnitOfMeasure != nil {
		updates["unit_of_measure"] = *req.UnitOfMeasure
	}
	if req.Stock != nil {
		updates["stock"] = decimal.NewFromFloat(*req.Stock).StringFixed(2)
	}
	if req.AverageCost != nil {
		updates["average_cost"] = decimal.NewFromFloat(*req.AverageCost).StringFixed(2)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&insum).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, errorResponse("Insum name already exists"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to update insum"))
			return
		}
	}

	h.InvalidateInsumCaches(c)
	c.JSON(http.StatusOK, successResponse("Insum updated successfully", insum))
}

// AdjustInsum registers a stock receipt: stock grows by the received
// quantity and the average cost becomes the weighted average of the old
// stock at the old cost and the received quantity at the received cost.
func (h *InsumHandler) AdjustInsum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid insum ID"))
		return
	}

	var req AdjustInsumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var insum models.Insum
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&insum, "id = ?", id).Error; err != nil {
			return err
		}

		stock, _ := decimal.NewFromString(insum.Stock)
		avgCost, _ := decimal.NewFromString(insum.AverageCost)
		qty := decimal.NewFromFloat(req.Quantity)
		unitCost := decimal.NewFromFloat(req.UnitCost)

		newStock := stock.Add(qty)
		newAvg := avgCost
		if newStock.GreaterThan(decimal.Zero) {
			newAvg = stock.Mul(avgCost).Add(qty.Mul(unitCost)).Div(newStock)
		}

		insum.Stock = newStock.StringFixed(2)
		insum.AverageCost = newAvg.StringFixed(2)
		return tx.Model(&models.Insum{}).Where("id = ?", id).Updates(map[string]interface{}{
			"stock":        insum.Stock,
			"average_cost": insum.AverageCost,
		}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Insum with ID %s not found", id)))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to adjust insum stock"))
		return
	}

	h.InvalidateInsumCaches(c)
	c.JSON(http.StatusOK, successResponse("Insum stock adjusted successfully", insum))
}

func (h *InsumHandler) DeleteInsum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid insum ID"))
		return
	}

	result := h.db.Delete(&models.Insum{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete insum"))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Insum with ID %s not found", id)))
		return
	}

	h.InvalidateInsumCaches(c)
	c.JSON(http.StatusOK, successResponse("Insum deleted successfully", nil))
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
)

type SupplierHandler struct {
	db *gorm.DB
}

func NewSupplierHandler(db *gorm.DB) *SupplierHandler {
	return &SupplierHandler{db: db}
}

type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=3,max=255"`
	Cnpj    string  `json:"cnpj" binding:"required,min=14,max=18"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   string  `json:"phone" binding:"required,min=10,max=20"`
	Address *string `json:"address,omitempty"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=3,max=255"`
	Cnpj    *string `json:"cnpj,omitempty" binding:"omitempty,min=14,max=18"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" binding:"omitempty,min=10,max=20"`
	Address *string `json:"address,omitempty"`
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	supplier := models.Supplier{
		ID:      uuid.New(),
		Name:    req.Name,
		Cnpj:    req.Cnpj,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.db.Create(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, errorResponse("Supplier CNPJ or email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create supplier"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Supplier created successfully", supplier))
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := h.db.Order("name asc").Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list suppliers"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Suppliers retrieved successfully", suppliers))
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid supplier ID"))
		return
	}

	var supplier models.Supplier
	if err := h.db.First(&supplier, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Supplier with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Supplier retrieved successfully", supplier))
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid supplier ID"))
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var supplier models.Supplier
	if err := h.db.First(&supplier, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Supplier with ID %s not found", id)))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Cnpj != nil {
		updates["cnpj"] = *req.Cnpj
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if len(updates) > 0 {
		if err := h.db.Model(&supplier).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, errorResponse("Supplier CNPJ or email already registered"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to update supplier"))
			return
		}
	}

	c.JSON(http.StatusOK, successResponse("Supplier updated successfully", supplier))
}

func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid supplier ID"))
		return
	}

	result := h.db.Delete(&models.Supplier{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete supplier"))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Supplier with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Supplier deleted successfully", nil))
}

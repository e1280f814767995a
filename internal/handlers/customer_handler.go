package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-system/internal/database/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

type CreateCustomerRequest struct {
	FullName     string  `json:"fullName" binding:"required,min=3,max=255"`
	CpfCnpj      string  `json:"cpfCnpj" binding:"required,min=11,max=18"`
	Whatsapp     string  `json:"whatsapp" binding:"required,min=10,max=20"`
	Email        string  `json:"email" binding:"required,email"`
	Gender       *string `json:"gender,omitempty"`
	BirthDate    *string `json:"birthDate,omitempty"`
	Origin       *string `json:"origin,omitempty"`
	Cep          string  `json:"cep" binding:"required,min=8,max=9"`
	Street       string  `json:"street" binding:"required"`
	Number       string  `json:"number" binding:"required"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood string  `json:"neighborhood" binding:"required"`
	City         string  `json:"city" binding:"required"`
	State        string  `json:"state" binding:"required,len=2"`
}

type UpdateCustomerRequest struct {
	FullName     *string `json:"fullName,omitempty" binding:"omitempty,min=3,max=255"`
	CpfCnpj      *string `json:"cpfCnpj,omitempty" binding:"omitempty,min=11,max=18"`
	Whatsapp     *string `json:"whatsapp,omitempty" binding:"omitempty,min=10,max=20"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Gender       *string `json:"gender,omitempty"`
	BirthDate    *string `json:"birthDate,omitempty"`
	Origin       *string `json:"origin,omitempty"`
	Cep          *string `json:"cep,omitempty" binding:"omitempty,min=8,max=9"`
	Street       *string `json:"street,omitempty"`
	Number       *string `json:"number,omitempty"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty" binding:"omitempty,len=2"`
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("birthDate must be YYYY-MM-DD"))
		return
	}

	customer := models.Customer{
		ID:           uuid.New(),
		FullName:     req.FullName,
		CpfCnpj:      req.CpfCnpj,
		Whatsapp:     req.Whatsapp,
		Email:        req.Email,
		Gender:       req.Gender,
		BirthDate:    birthDate,
		Origin:       req.Origin,
		Cep:          req.Cep,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, errorResponse("Customer CPF/CNPJ or email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create customer"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Customer created successfully", customer))
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := h.db.Order("full_name asc").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list customers"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Customers retrieved successfully", customers))
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid customer ID"))
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Customer with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer retrieved successfully", customer))
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid customer ID"))
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Customer with ID %s not found", id)))
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.CpfCnpj != nil {
		updates["cpf_cnpj"] = *req.CpfCnpj
	}
	if req.Whatsapp != nil {
		updates["whatsapp"] = *req.Whatsapp
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("birthDate must be YYYY-MM-DD"))
			return
		}
		updates["birth_date"] = birthDate
	}
	if req.Origin != nil {
		updates["origin"] = *req.Origin
	}
	if req.Cep != nil {
		updates["cep"] = *req.Cep
	}
	if req.Street != nil {
		updates["street"] = *req.Street
	}
	if req.Number != nil {
		updates["number"] = *req.Number
	}
	if req.Complement != nil {
		updates["complement"] = *req.Complement
	}
	if req.Neighborhood != nil {
		updates["neighborhood"] = *req.Neighborhood
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}

	if len(updates) > 0 {
		if err := h.db.Model(&customer).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, errorResponse("Customer CPF/CNPJ or email already registered"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to update customer"))
			return
		}
	}

	c.JSON(http.StatusOK, successResponse("Customer updated successfully", customer))
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid customer ID"))
		return
	}

	result := h.db.Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete customer"))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("Customer with ID %s not found", id)))
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer deleted successfully", nil))
}

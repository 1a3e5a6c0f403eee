package handler

import (
	"net/http"

	"trixtech/internal/middleware"
	"trixtech/internal/models"
	"trixtech/internal/repository"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	serviceRepo  *repository.ServiceRepository
	timeslotRepo *repository.TimeSlotRepository
	bookingRepo  *repository.BookingRepository
}

func NewServiceHandler(serviceRepo *repository.ServiceRepository, timeslotRepo *repository.TimeSlotRepository, bookingRepo *repository.BookingRepository) *ServiceHandler {
	return &ServiceHandler{serviceRepo: serviceRepo, timeslotRepo: timeslotRepo, bookingRepo: bookingRepo}
}

// List handles GET /services.
func (h *ServiceHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	var available *bool
	if v := c.Query("available"); v != "" {
		b := v == "true"
		available = &b
	}
	services, total, err := h.serviceRepo.List(c.Query("category"), available, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "pagination": pagination(page, limit, total)})
}

// Get handles GET /services/:id.
func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	s, err := h.serviceRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// Create handles POST /services — admin only.
func (h *ServiceHandler) Create(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category" binding:"required"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Duration    int     `json:"duration" binding:"required,gt=0"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		Image:       req.Image,
		Available:   true,
		CreatedBy:   middleware.GetUserID(c),
	}
	if err := h.serviceRepo.Create(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "service created successfully", "service": s})
}

// Update handles PUT /services/:id — admin only.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Duration    *int     `json:"duration"`
		Image       *string  `json:"image"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}
	if err := h.serviceRepo.Update(id, fields); err != nil {
		respondError(c, err)
		return
	}
	s, err := h.serviceRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service updated successfully", "service": s})
}

// Delete handles DELETE /services/:id — admin only. Slots and bookings that
// reference the service are removed with it.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.serviceRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	_ = h.timeslotRepo.DeleteByServiceID(id)
	_ = h.bookingRepo.DeleteByServiceID(id)
	c.JSON(http.StatusOK, gin.H{"message": "service deleted successfully"})
}

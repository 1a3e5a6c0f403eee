package handler

import (
	"net/http"

	"trixtech/internal/domain"
	"trixtech/internal/middleware"
	"trixtech/internal/repository"
	"trixtech/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingSvc  *service.BookingService
	bookingRepo *repository.BookingRepository
}

func NewBookingHandler(bookingSvc *service.BookingService, bookingRepo *repository.BookingRepository) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, bookingRepo: bookingRepo}
}

// List handles GET /bookings. Customers see their own; admins see all.
func (h *BookingHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	userID := middleware.GetUserID(c)
	if middleware.GetRole(c) == domain.RoleAdmin {
		userID = 0
	}
	bookings, total, err := h.bookingRepo.List(userID, c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "pagination": pagination(page, limit, total)})
}

// Create handles POST /bookings — reserves the slot and opens the booking
// in pending/pending.
func (h *BookingHandler) Create(c *gin.Context) {
	var req struct {
		ServiceID  uint   `json:"service_id" binding:"required"`
		TimeSlotID uint   `json:"time_slot_id" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookingSvc.Create(middleware.GetUserID(c), req.ServiceID, req.TimeSlotID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "booking created successfully", "booking": b})
}

// Get handles GET /bookings/:id — owner or admin.
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := h.bookingSvc.Get(id, middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Update handles PUT /bookings/:id — owner or admin; notes only. Status
// moves through the lifecycle paths, never through this endpoint.
func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Notes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Notes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}
	b, err := h.bookingSvc.UpdateNotes(id, middleware.GetUserID(c), middleware.GetRole(c), *req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking updated successfully", "booking": b})
}

// Cancel handles DELETE /bookings/:id — owner or admin. Frees the slot.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.bookingSvc.Cancel(id, middleware.GetUserID(c), middleware.GetRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled successfully"})
}

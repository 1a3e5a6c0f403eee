package handler

import (
	"fmt"
	"net/http"

	"trixtech/internal/domain"
	"trixtech/internal/middleware"
	"trixtech/internal/models"
	"trixtech/internal/repository"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewRepo   *repository.ReviewRepository
	bookingRepo  *repository.BookingRepository
	adminLogRepo *repository.AdminLogRepository
}

func NewReviewHandler(reviewRepo *repository.ReviewRepository, bookingRepo *repository.BookingRepository, adminLogRepo *repository.AdminLogRepository) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo, bookingRepo: bookingRepo, adminLogRepo: adminLogRepo}
}

// Create handles POST /reviews. Only the owner of a completed booking may
// review it; the review waits for moderation before showing anywhere.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if b.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if b.Status != domain.BookingCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking is not completed"})
		return
	}
	rev := &models.Review{
		BookingID: b.ID,
		UserID:    b.UserID,
		ServiceID: b.ServiceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.reviewRepo.Create(rev); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "booking already reviewed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "review submitted", "review": rev})
}

// List handles GET /admin/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	var serviceID uint
	if v := c.Query("serviceId"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &serviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid serviceId"})
			return
		}
	}
	reviews, total, err := h.reviewRepo.List(serviceID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "pagination": pagination(page, limit, total)})
}

// Approve handles PUT /admin/reviews/:id/approve.
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewRepo.Approve(id); err != nil {
		respondError(c, err)
		return
	}
	_ = h.adminLogRepo.Create(&models.AdminLog{
		AdminID:     middleware.GetUserID(c),
		Action:      domain.ActionApproveReview,
		Description: fmt.Sprintf("Approved review %d", id),
		TargetID:    fmt.Sprintf("%d", id),
	})
	c.JSON(http.StatusOK, gin.H{"message": "review approved successfully"})
}

// Delete handles DELETE /admin/reviews/:id.
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	_ = h.adminLogRepo.Create(&models.AdminLog{
		AdminID:     middleware.GetUserID(c),
		Action:      domain.ActionDeleteReview,
		Description: fmt.Sprintf("Deleted review %d", id),
		TargetID:    fmt.Sprintf("%d", id),
	})
	c.JSON(http.StatusOK, gin.H{"message": "review deleted successfully"})
}

package handler

import (
	"net/http"

	"trixtech/internal/domain"
	"trixtech/internal/middleware"
	"trixtech/internal/repository"
	"trixtech/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc  *service.PaymentService
	paymentRepo *repository.PaymentRepository
}

func NewPaymentHandler(paymentSvc *service.PaymentService, paymentRepo *repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, paymentRepo: paymentRepo}
}

// CreateIntent handles POST /payments/create-intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req struct {
		BookingID uint `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	intent, err := h.paymentSvc.CreateIntent(c.Request.Context(), req.BookingID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.ID,
	})
}

// Confirm handles POST /payments/confirm — the synchronous finalization
// path; the succeeded webhook may land before or after it.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req struct {
		BookingID       uint   `json:"booking_id" binding:"required"`
		PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.paymentSvc.Confirm(c.Request.Context(), req.BookingID, req.PaymentIntentID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment confirmed successfully", "booking": b})
}

// List handles GET /payments. Customers see their own; admins see all.
func (h *PaymentHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	userID := middleware.GetUserID(c)
	if middleware.GetRole(c) == domain.RoleAdmin {
		userID = 0
	}
	payments, total, err := h.paymentRepo.List(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "pagination": pagination(page, limit, total)})
}

// Refund handles POST /payments/refund — admin only.
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req struct {
		PaymentID uint   `json:"payment_id" binding:"required"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refund, err := h.paymentSvc.Refund(c.Request.Context(), req.PaymentID, req.Reason, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refund processed successfully", "refund": refund})
}

// Reconcile handles POST /admin/payments/reconcile — admin only.
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	n, err := h.paymentSvc.Reconcile(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payments reconciled successfully", "processed": n})
}

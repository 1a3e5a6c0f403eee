package handler

import (
	"net/http"
	"strconv"
	"time"

	"trixtech/internal/middleware"
	"trixtech/internal/repository"
	"trixtech/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminRepo    *repository.AdminRepository
	adminLogRepo *repository.AdminLogRepository
	bookingSvc   *service.BookingService
}

func NewAdminHandler(adminRepo *repository.AdminRepository, adminLogRepo *repository.AdminLogRepository, bookingSvc *service.BookingService) *AdminHandler {
	return &AdminHandler{adminRepo: adminRepo, adminLogRepo: adminLogRepo, bookingSvc: bookingSvc}
}

// DashboardStats handles GET /admin/dashboard/stats over an optional
// startDate/endDate window (default: last 30 days).
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)
	if v := c.Query("startDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
		startDate = d
	}
	if v := c.Query("endDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
			return
		}
		endDate = d
	}
	stats, err := h.adminRepo.GetDashboardStats(startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SetBookingStatus handles PUT /admin/bookings/status — the audited status
// override, guarded by the lifecycle transition table.
func (h *AdminHandler) SetBookingStatus(c *gin.Context) {
	var req struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookingSvc.SetStatus(req.BookingID, req.Status, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking status updated successfully", "booking": b})
}

// Logs handles GET /admin/logs with action and adminId filters.
func (h *AdminHandler) Logs(c *gin.Context) {
	page, limit := parsePagination(c)
	var adminID uint
	if v := c.Query("adminId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adminId"})
			return
		}
		adminID = uint(n)
	}
	logs, total, err := h.adminLogRepo.List(c.Query("action"), adminID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "pagination": pagination(page, limit, total)})
}

// SystemHealth handles GET /admin/system/health.
func (h *AdminHandler) SystemHealth(c *gin.Context) {
	latency, err := h.adminRepo.Ping()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now(),
			"error":     "database connection failed",
		})
		return
	}
	counts, err := h.adminRepo.TableCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect table counts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"database": gin.H{
			"connected":   true,
			"latency":     latency.String(),
			"collections": counts,
		},
	})
}

package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"trixtech/internal/models"
	"trixtech/internal/repository"

	"github.com/gin-gonic/gin"
)

var timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

type TimeSlotHandler struct {
	timeslotRepo *repository.TimeSlotRepository
	serviceRepo  *repository.ServiceRepository
}

func NewTimeSlotHandler(timeslotRepo *repository.TimeSlotRepository, serviceRepo *repository.ServiceRepository) *TimeSlotHandler {
	return &TimeSlotHandler{timeslotRepo: timeslotRepo, serviceRepo: serviceRepo}
}

// List handles GET /timeslots with serviceId, date, and available filters.
func (h *TimeSlotHandler) List(c *gin.Context) {
	var serviceID uint
	if v := c.Query("serviceId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid serviceId"})
			return
		}
		serviceID = uint(n)
	}
	var date *time.Time
	if v := c.Query("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (use YYYY-MM-DD)"})
			return
		}
		date = &d
	}
	var available *bool
	if v := c.Query("available"); v != "" {
		b := v == "true"
		available = &b
	}
	slots, err := h.timeslotRepo.List(serviceID, date, available)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list timeslots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeslots": slots})
}

// Create handles POST /timeslots — admin only.
func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req struct {
		ServiceID uint   `json:"service_id" binding:"required"`
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !timeRe.MatchString(req.StartTime) || !timeRe.MatchString(req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format (use HH:mm)"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (use YYYY-MM-DD)"})
		return
	}
	if _, err := h.serviceRepo.GetByID(req.ServiceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	slot := &models.TimeSlot{
		ServiceID: req.ServiceID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: true,
	}
	if err := h.timeslotRepo.Create(slot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create timeslot"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "time slot created successfully", "timeslot": slot})
}

package handler

import (
	"net/http"

	"trixtech/internal/domain"
	"trixtech/internal/middleware"
	"trixtech/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	reviewRepo  *repository.ReviewRepository
}

func NewUserHandler(userRepo *repository.UserRepository, bookingRepo *repository.BookingRepository, reviewRepo *repository.ReviewRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo, bookingRepo: bookingRepo, reviewRepo: reviewRepo}
}

// GetProfile handles GET /users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfile handles PUT /users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FirstName      *string `json:"first_name"`
		LastName       *string `json:"last_name"`
		Phone          *string `json:"phone"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.ProfilePicture != nil {
		fields["profile_picture"] = *req.ProfilePicture
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.userRepo.Update(userID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": u})
}

// List handles GET /users — admin only.
func (h *UserHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.userRepo.List(c.Query("search"), c.Query("role"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination(page, limit, total)})
}

// Get handles GET /users/:id — self or admin.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if middleware.GetUserID(c) != id && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:id — self or admin. The user's bookings and
// reviews go with the account.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if middleware.GetUserID(c) != id && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.userRepo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	_ = h.bookingRepo.DeleteByUserID(id)
	_ = h.reviewRepo.DeleteByUserID(id)
	c.JSON(http.StatusOK, gin.H{"message": "user account deleted successfully"})
}

package repository

import (
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(rev *models.Review) error {
	return r.db.Create(rev).Error
}

func (r *ReviewRepository) List(serviceID uint, page, limit int) ([]models.Review, int64, error) {
	q := r.db.Model(&models.Review{})
	if serviceID != 0 {
		q = q.Where("service_id = ?", serviceID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []models.Review
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepository) Approve(id uint) error {
	res := r.db.Model(&models.Review{}).Where("id = ?", id).Update("approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Review{}).Error
}

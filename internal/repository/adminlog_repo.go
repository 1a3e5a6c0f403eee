package repository

import (
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type AdminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

func (r *AdminLogRepository) Create(l *models.AdminLog) error {
	return r.db.Create(l).Error
}

func (r *AdminLogRepository) List(action string, adminID uint, page, limit int) ([]models.AdminLog, int64, error) {
	q := r.db.Model(&models.AdminLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if adminID != 0 {
		q = q.Where("admin_id = ?", adminID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.AdminLog
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&logs).Error
	return logs, total, err
}

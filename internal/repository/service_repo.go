package repository

import (
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(s *models.Service) error {
	return r.db.Create(s).Error
}

func (r *ServiceRepository) GetByID(id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) List(category string, available *bool, page, limit int) ([]models.Service, int64, error) {
	q := r.db.Model(&models.Service{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if available != nil {
		q = q.Where("available = ?", *available)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var services []models.Service
	err := q.Offset((page - 1) * limit).Limit(limit).Find(&services).Error
	return services, total, err
}

func (r *ServiceRepository) Update(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.Service{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"trixtech/internal/domain"
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByIntentID(intentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns payments newest first. userID of 0 means all users (admin).
func (r *PaymentRepository) List(userID uint, page, limit int) ([]models.Payment, int64, error) {
	q := r.db.Model(&models.Payment{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var payments []models.Payment
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&payments).Error
	return payments, total, err
}

func (r *PaymentRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("status", status).Error
}

// MarkAllPendingProcessing is the batch reconciliation sweep. Returns how
// many payments were moved to the processing marker.
func (r *PaymentRepository) MarkAllPendingProcessing() (int64, error) {
	res := r.db.Model(&models.Payment{}).
		Where("status = ?", domain.PaymentPending).
		Update("status", domain.PaymentProcessing)
	return res.RowsAffected, res.Error
}

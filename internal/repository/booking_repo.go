package repository

import (
	"trixtech/internal/domain"
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByStripePaymentID(intentID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.Where("stripe_payment_id = ?", intentID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns bookings newest first. userID of 0 means all users (admin).
func (r *BookingRepository) List(userID uint, status string, page, limit int) ([]models.Booking, int64, error) {
	q := r.db.Model(&models.Booking{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	err := q.Order("booking_date DESC").Offset((page - 1) * limit).Limit(limit).Find(&bookings).Error
	return bookings, total, err
}

func (r *BookingRepository) Update(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.Booking{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConfirmPayment records a successful payment on the booking. Writing the
// same values twice is harmless, which is what makes the synchronous confirm
// path and the webhook safe to race.
func (r *BookingRepository) ConfirmPayment(id uint, intentID string) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status":    domain.PaymentStatusCompleted,
		"status":            domain.BookingConfirmed,
		"stripe_payment_id": intentID,
	}).Error
}

// MarkPaymentFailed flags the failed attempt but leaves the booking pending
// and its slot held, so the user can retry paying.
func (r *BookingRepository) MarkPaymentFailed(id uint) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).
		Update("payment_status", domain.PaymentStatusFailed).Error
}

// MarkRefunded cancels the booking and records the refunded payment state.
func (r *BookingRepository) MarkRefunded(id uint) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         domain.BookingCancelled,
		"payment_status": domain.PaymentStatusRefunded,
	}).Error
}

func (r *BookingRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *BookingRepository) DeleteByServiceID(serviceID uint) error {
	return r.db.Where("service_id = ?", serviceID).Delete(&models.Booking{}).Error
}

func (r *BookingRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Booking{}).Error
}

package repository

import (
	"time"

	"trixtech/internal/models"

	"gorm.io/gorm"
)

type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) Create(t *models.TimeSlot) error {
	return r.db.Create(t).Error
}

func (r *TimeSlotRepository) GetByID(id uint) (*models.TimeSlot, error) {
	var t models.TimeSlot
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns slots filtered by service, calendar day, and availability,
// ordered by date then start time.
func (r *TimeSlotRepository) List(serviceID uint, date *time.Time, available *bool) ([]models.TimeSlot, error) {
	q := r.db.Model(&models.TimeSlot{})
	if serviceID != 0 {
		q = q.Where("service_id = ?", serviceID)
	}
	if date != nil {
		day := date.Truncate(24 * time.Hour)
		q = q.Where("date >= ? AND date < ?", day, day.Add(24*time.Hour))
	}
	if available != nil {
		q = q.Where("available = ?", *available)
	}
	var slots []models.TimeSlot
	err := q.Order("date ASC, start_time ASC").Find(&slots).Error
	return slots, err
}

// Reserve flips available to false only if it is currently true. The
// conditional filter makes the check-and-set a single atomic statement, so
// two concurrent reservations cannot both win. Returns false when the slot
// was already taken.
func (r *TimeSlotRepository) Reserve(id uint) (bool, error) {
	res := r.db.Model(&models.TimeSlot{}).
		Where("id = ? AND available = ?", id, true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Release marks the slot bookable again. Idempotent: releasing an already
// free slot is a no-op.
func (r *TimeSlotRepository) Release(id uint) error {
	return r.db.Model(&models.TimeSlot{}).
		Where("id = ?", id).
		Update("available", true).Error
}

func (r *TimeSlotRepository) DeleteByServiceID(serviceID uint) error {
	return r.db.Where("service_id = ?", serviceID).Delete(&models.TimeSlot{}).Error
}

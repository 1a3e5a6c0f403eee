package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	ServiceID       uint           `gorm:"not null;index" json:"service_id"`
	TimeSlotID      uint           `gorm:"not null;index" json:"time_slot_id"`
	Status          string         `gorm:"size:20;not null;index" json:"status"`         // pending, confirmed, completed, cancelled
	PaymentStatus   string         `gorm:"size:20;not null;index" json:"payment_status"` // pending, completed, failed, refunded
	TotalPrice      float64        `gorm:"not null" json:"total_price"` // service price snapshot at creation
	BookingDate     time.Time      `gorm:"not null;index" json:"booking_date"`
	Notes           string         `gorm:"type:text" json:"notes"`
	StripePaymentID string         `gorm:"size:255;index" json:"stripe_payment_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Service  Service  `gorm:"foreignKey:ServiceID" json:"-"`
	TimeSlot TimeSlot `gorm:"foreignKey:TimeSlotID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

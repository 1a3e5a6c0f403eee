package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	BookingID             uint           `gorm:"not null;index" json:"booking_id"`
	UserID                uint           `gorm:"not null;index" json:"user_id"`
	Amount                float64        `gorm:"not null" json:"amount"` // decimal currency units
	Currency              string         `gorm:"size:3;default:'usd'" json:"currency"`
	StripePaymentIntentID string         `gorm:"size:255;uniqueIndex" json:"stripe_payment_intent_id"`
	Status                string         `gorm:"size:20;not null;index" json:"status"` // pending, processing, succeeded, failed, refunded
	PaymentMethod         string         `gorm:"size:20;default:'stripe'" json:"payment_method"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

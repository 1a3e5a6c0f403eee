package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a bookable offering. Available controls catalog visibility
// only; slot-level availability lives on TimeSlot.
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:100;not null;index" json:"category"`
	Price       float64        `gorm:"not null" json:"price"`            // decimal currency units
	Duration    int            `gorm:"not null" json:"duration"`         // minutes
	Image       string         `gorm:"size:512" json:"image"`
	Available   bool           `gorm:"default:true;index" json:"available"`
	CreatedBy   uint           `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Service) TableName() string {
	return "services"
}

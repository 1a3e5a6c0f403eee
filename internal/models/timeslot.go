package models

import "time"

// TimeSlot belongs to exactly one Service. Available is the single source
// of truth for whether a new booking may attach to this slot.
type TimeSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"` // HH:mm
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`   // HH:mm
	Available bool      `gorm:"default:true;index" json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

func (TimeSlot) TableName() string {
	return "timeslots"
}

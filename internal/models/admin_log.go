package models

import "time"

// AdminLog is an append-only audit entry. Never updated or deleted.
type AdminLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminID     uint      `gorm:"not null;index" json:"admin_id"`
	Action      string    `gorm:"size:64;not null;index" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	TargetID    string    `gorm:"size:64" json:"target_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AdminLog) TableName() string {
	return "adminlogs"
}

package models

import "time"

// Activity is an append-only audit trail row. Rows are never updated or
// deleted by normal operation.
type Activity struct {
	ID          uint      `gorm:"primaryKey"`
	Action      string    `gorm:"size:32;not null;index"`
	EntityType  string    `gorm:"size:32;not null"`
	EntityID    string    `gorm:"size:64;index"`
	Description string    `gorm:"size:512"`
	PerformedBy string    `gorm:"size:191"`
	Metadata    JSONMap   `gorm:"type:text"`
	PerformedAt time.Time `gorm:"autoCreateTime;index"`
}

package models

import "time"

// Backup is one row in the backups table: the metadata for one captured
// artifact. BackupID is the human-legible BKP-XXXXXXXX identifier and is
// assigned exactly once at creation.
type Backup struct {
	ID        uint      `gorm:"primaryKey"`
	BackupID  string    `gorm:"uniqueIndex;size:32;not null"`
	Name      string    `gorm:"size:255"`
	Type      string    `gorm:"size:32;not null"`
	Status    string    `gorm:"size:32;not null"`
	Size      string    `gorm:"size:32"`
	Location  string    `gorm:"size:255"`
	CreatedBy string    `gorm:"size:191"`
	Metadata  JSONMap   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

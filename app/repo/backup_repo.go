package repo

import (
	"errors"
	"strings"

	"staffdesk/app/models"

	"gorm.io/gorm"
)

type BackupRepository struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) *BackupRepository { return &BackupRepository{db: db} }

func (r *BackupRepository) Create(b *models.Backup) error { return r.db.Create(b).Error }

// FindByBackupID returns (nil, nil) when no row matches.
func (r *BackupRepository) FindByBackupID(backupID string) (*models.Backup, error) {
	var b models.Backup
	err := r.db.Where("backup_id = ?", backupID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListNewestFirst orders by created_at descending; id breaks ties so two
// backups created within the same clock tick still come back newest first.
func (r *BackupRepository) ListNewestFirst() ([]models.Backup, error) {
	var out []models.Backup
	if err := r.db.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BackupRepository) DeleteByBackupID(backupID string) error {
	return r.db.Where("backup_id = ?", backupID).Delete(&models.Backup{}).Error
}

// IsDuplicateKey reports whether err came from the backup_id unique index.
// The mysql and sqlite drivers spell the violation differently.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

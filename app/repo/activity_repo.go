package repo

import (
	"staffdesk/app/models"

	"gorm.io/gorm"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Append(a *models.Activity) error { return r.db.Create(a).Error }

func (r *ActivityRepository) ListRecent(limit int) ([]models.Activity, error) {
	var out []models.Activity
	q := r.db.Order("performed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActivityRepository) ListByAction(action string) ([]models.Activity, error) {
	var out []models.Activity
	if err := r.db.Where("action = ?", action).Order("performed_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

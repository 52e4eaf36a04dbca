package repositories

import (
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsightRepo interface {
	Create(entry *models.InsightLog) error
	Recent(limit int) ([]models.InsightLog, error)
}

type insightRepo struct {
	db *gorm.DB
}

func NewInsightRepo(db *gorm.DB) InsightRepo {
	return &insightRepo{db: db}
}

func (r *insightRepo) Create(entry *models.InsightLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.Create(entry).Error
}

func (r *insightRepo) Recent(limit int) ([]models.InsightLog, error) {
	if limit < 1 {
		limit = 20
	}
	var entries []models.InsightLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

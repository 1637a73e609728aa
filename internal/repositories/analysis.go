package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/career-pilot/internal/models"
)

// AnalysisRepository is append-only: records are never updated or deleted.
type AnalysisRepository interface {
	Append(ctx context.Context, record *models.AnalysisHistory) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AnalysisHistory, error)
	FindAll(ctx context.Context, limit int) ([]models.AnalysisHistory, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Append(ctx context.Context, record *models.AnalysisHistory) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to append analysis history: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AnalysisHistory, error) {
	var records []models.AnalysisHistory
	err := r.newestFirst(ctx, limit).
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}
	return records, nil
}

func (r *analysisRepository) FindAll(ctx context.Context, limit int) ([]models.AnalysisHistory, error) {
	var records []models.AnalysisHistory
	if err := r.newestFirst(ctx, limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}
	return records, nil
}

func (r *analysisRepository) newestFirst(ctx context.Context, limit int) *gorm.DB {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

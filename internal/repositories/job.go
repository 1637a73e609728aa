package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/career-pilot/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.JobDescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobDescription, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.JobDescription, error)
	FindAll(ctx context.Context) ([]models.JobDescription, error)
	Count(ctx context.Context) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.JobDescription) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.Slug == "" {
		job.Slug = job.ID.String()
	}

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("job %q: %w", job.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobDescription, error) {
	var job models.JobDescription
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job description %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job description: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.JobDescription, error) {
	var jobs []models.JobDescription
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find job descriptions: %w", err)
	}
	return jobs, nil
}

// FindAll lists built-in jobs first, then the rest by title.
func (r *jobRepository) FindAll(ctx context.Context) ([]models.JobDescription, error) {
	var jobs []models.JobDescription
	err := r.db.WithContext(ctx).
		Order("built_in DESC").
		Order("title ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.JobDescription{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count job descriptions: %w", err)
	}
	return n, nil
}

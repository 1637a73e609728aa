package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/repositories"
)

var ErrRecommendationsDisabled = errors.New("job recommendations are not configured")

const defaultRecommendLimit = 3

type JobService struct {
	repo     repositories.JobRepository
	index    JobIndex
	embedder Embedder
	log      *zap.Logger
}

// NewJobService builds the job catalog service. index and embedder may be nil,
// which turns recommendations off.
func NewJobService(repo repositories.JobRepository, index JobIndex, embedder Embedder, log *zap.Logger) *JobService {
	return &JobService{
		repo:     repo,
		index:    index,
		embedder: embedder,
		log:      log.Named("jobs"),
	}
}

func (s *JobService) List(ctx context.Context) ([]models.JobDescription, error) {
	return s.repo.FindAll(ctx)
}

// Get resolves a job id. Malformed and unknown ids are both ErrJobNotFound.
func (s *JobService) Get(ctx context.Context, id string) (*models.JobDescription, error) {
	jobID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	job, err := s.repo.FindByID(ctx, jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, err
}

// ResolveDescription returns the job description text for a request that
// carries either literal text or a job id. The id wins when both are set.
func (s *JobService) ResolveDescription(ctx context.Context, text, jobID string) (string, *models.JobDescription, error) {
	if strings.TrimSpace(jobID) != "" {
		job, err := s.Get(ctx, jobID)
		if err != nil {
			return "", nil, err
		}
		return job.Description, job, nil
	}

	if strings.TrimSpace(text) == "" {
		return "", nil, fmt.Errorf("%w: job description or job id is required", ErrInvalidInput)
	}
	return text, nil, nil
}

func (s *JobService) Create(ctx context.Context, req models.CreateJobRequest) (*models.JobDescription, error) {
	job := &models.JobDescription{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info("job description created", zap.String("job_id", job.ID.String()), zap.String("title", job.Title))

	if err := s.indexJob(ctx, job); err != nil {
		s.log.Warn("failed to index job description", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
	return job, nil
}

// SeedBuiltIns inserts the built-in catalog when the table is empty and
// returns how many jobs were created.
func (s *JobService) SeedBuiltIns(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, builtIn := range models.BuiltInJobs {
		job := builtIn
		job.BuiltIn = true
		if err := s.repo.Create(ctx, &job); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("failed to seed %s: %w", job.Slug, err)
		}
		created++

		if err := s.indexJob(ctx, &job); err != nil {
			s.log.Warn("failed to index built-in job", zap.String("slug", job.Slug), zap.Error(err))
		}
	}

	s.log.Info("built-in jobs seeded", zap.Int("created", created))
	return created, nil
}

// IndexAll re-embeds every stored job. It is a no-op without an index.
func (s *JobService) IndexAll(ctx context.Context) (int, error) {
	if !s.RecommendationsEnabled() {
		return 0, nil
	}

	jobs, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for i := range jobs {
		if err := s.indexJob(ctx, &jobs[i]); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}

// Recommend returns the stored jobs closest to the résumé text.
func (s *JobService) Recommend(ctx context.Context, resume string, limit int) ([]models.JobRecommendation, error) {
	if !s.RecommendationsEnabled() {
		return nil, ErrRecommendationsDisabled
	}
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	embedding, err := s.embedder.Embed(ctx, resume)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.SearchJobs(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}

	// the database is authoritative for titles and existence
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JobID)
	}
	jobs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}

	recommendations := make([]models.JobRecommendation, 0, len(matches))
	for _, m := range matches {
		title, ok := titles[m.JobID]
		if !ok {
			continue
		}
		recommendations = append(recommendations, models.JobRecommendation{
			JobID: m.JobID,
			Title: title,
			Score: m.Score,
		})
	}
	return recommendations, nil
}

func (s *JobService) RecommendationsEnabled() bool {
	return s.index != nil && s.embedder != nil
}

func (s *JobService) indexJob(ctx context.Context, job *models.JobDescription) error {
	if !s.RecommendationsEnabled() {
		return nil
	}

	embedding, err := s.embedder.Embed(ctx, job.Title+"\n\n"+job.Description)
	if err != nil {
		return err
	}
	return s.index.UpsertJob(ctx, job, embedding)
}

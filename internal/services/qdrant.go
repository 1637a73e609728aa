package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/config"
	"alfredoptarigan/career-pilot/internal/models"
)

// JobIndex stores one embedding per job description for recommendations.
type JobIndex interface {
	InitCollection(ctx context.Context) error
	UpsertJob(ctx context.Context, job *models.JobDescription, embedding []float32) error
	SearchJobs(ctx context.Context, embedding []float32, limit int) ([]JobMatch, error)
	Close() error
}

type JobMatch struct {
	JobID uuid.UUID
	Title string
	Score float32
}

type qdrantJobIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

// text-embedding-004 output size
const jobVectorSize = 768

func NewJobIndex(cfg config.QdrantConfig, log *zap.Logger) (JobIndex, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantJobIndex{
		client:         client,
		collectionName: cfg.Collection,
		vectorSize:     jobVectorSize,
		log:            log.Named("qdrant"),
	}, nil
}

// InitCollection implements JobIndex.
func (q *qdrantJobIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertJob keys the point by the job id, so re-seeding replaces it.
func (q *qdrantJobIndex) UpsertJob(ctx context.Context, job *models.JobDescription, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(job.ID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"job_id":   job.ID.String(),
			"title":    job.Title,
			"built_in": job.BuiltIn,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", job.ID, err)
	}
	return nil
}

// SearchJobs implements JobIndex.
func (q *qdrantJobIndex) SearchJobs(ctx context.Context, embedding []float32, limit int) ([]JobMatch, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]JobMatch, 0, len(points))
	for _, point := range points {
		id, err := uuid.Parse(point.GetId().GetUuid())
		if err != nil {
			q.log.Warn("skipping point without job id", zap.Error(err))
			continue
		}

		match := JobMatch{JobID: id, Score: point.Score}
		if title, ok := point.Payload["title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				match.Title = val.StringValue
			}
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func (q *qdrantJobIndex) Close() error {
	return q.client.Close()
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/config"
	"alfredoptarigan/career-pilot/internal/models"
)

const routingAnalysisCompleted = "analysis.completed"

// EventPublisher announces recorded analyses to downstream consumers.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, record *models.AnalysisHistory) error
	Close() error
}

// AnalysisCompletedEvent is the message body published on analysis.completed.
type AnalysisCompletedEvent struct {
	AnalysisID       string    `json:"analysisId"`
	UserID           string    `json:"userId,omitempty"`
	JobDescriptionID string    `json:"jobDescriptionId,omitempty"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	ResumeFileName   string    `json:"resumeFileName"`
	MatchScore       int       `json:"matchScore"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewAnalysisCompletedEvent(record *models.AnalysisHistory) AnalysisCompletedEvent {
	event := AnalysisCompletedEvent{
		AnalysisID:     record.ID.String(),
		JobTitle:       record.JobTitle,
		ResumeFileName: record.ResumeFileName,
		MatchScore:     record.MatchScore,
		Status:         string(record.Status),
		CreatedAt:      record.CreatedAt,
	}
	if record.UserID != nil {
		event.UserID = record.UserID.String()
	}
	if record.JobDescriptionID != nil {
		event.JobDescriptionID = record.JobDescriptionID.String()
	}
	return event
}

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewEventPublisher connects to RabbitMQ. An empty URL yields a publisher that
// drops every event.
func NewEventPublisher(cfg config.RabbitMQConfig, log *zap.Logger) (EventPublisher, error) {
	if cfg.URL == "" {
		log.Info("rabbitmq not configured, analysis events disabled")
		return noopPublisher{}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Info("rabbitmq connected", zap.String("exchange", cfg.Exchange))
	return &amqpPublisher{conn: conn, exchange: cfg.Exchange}, nil
}

func (p *amqpPublisher) PublishAnalysisCompleted(ctx context.Context, record *models.AnalysisHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewAnalysisCompletedEvent(record))
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		routingAnalysisCompleted,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    record.ID.String(),
			Timestamp:    record.CreatedAt,
			Body:         body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

type noopPublisher struct{}

func (noopPublisher) PublishAnalysisCompleted(context.Context, *models.AnalysisHistory) error {
	return nil
}

func (noopPublisher) Close() error { return nil }

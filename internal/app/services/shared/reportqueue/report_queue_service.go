// Package reportqueue announces accepted results to downstream consumers
// over RabbitMQ. Events carry an HS256 token so consumers can verify the
// event really came from this service before acting on it.
package reportqueue

import (
	"fmt"
	"sync"
	"time"

	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const AcceptedReportQueueName = "accepted_report_queue"

// AcceptedReportEvent is the payload stored in RabbitMQ. It carries the
// result summary only; consumers fetch the full document by report ID.
type AcceptedReportEvent struct {
	ReportID          string    `json:"report_id"`
	ReportType        string    `json:"report_type"`
	PseudoID          string    `json:"pseudo_id"`
	IngestedAt        time.Time `json:"ingested_at"`
	OverallConfidence float64   `json:"overall_confidence"`
	Token             string    `json:"token"`
}

type reportQueueService struct {
	ch            *amqp.Channel
	log           *zap.Logger
	signingSecret []byte
	confirms      chan amqp.Confirmation
	mu            sync.Mutex
}

// NewReportQueueService declares the durable queue and enables publisher
// confirms so an accepted event is never silently lost.
func NewReportQueueService(conn *amqp.Connection, log *zap.Logger, signingSecret string) (contracts.EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		AcceptedReportQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &reportQueueService{
		ch:            ch,
		log:           log,
		signingSecret: []byte(signingSecret),
		confirms:      ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *reportQueueService) PublishAccepted(ctx context.Context, result *models.PipelineResult) error {
	token, err := s.signEvent(result)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, AcceptedReportQueueName)
	}

	event := AcceptedReportEvent{
		ReportID:          result.ReportID,
		ReportType:        result.ReportType,
		PseudoID:          result.Patient.PseudoID,
		IngestedAt:        result.IngestedAt,
		OverallConfidence: result.Audit.OverallConfidence,
		Token:             token,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", AcceptedReportQueueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, AcceptedReportQueueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), AcceptedReportQueueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), AcceptedReportQueueName)
	}

	s.log.Info("published accepted report event",
		zap.String(constvars.LoggingReportIDKey, result.ReportID),
	)
	return nil
}

func (s *reportQueueService) signEvent(result *models.PipelineResult) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": result.ReportID,
		"rpt": result.ReportType,
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingSecret)
}

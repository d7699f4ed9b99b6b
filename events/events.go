// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/danielhkuo/student-vote/models"
)

const (
	DefaultQueue   = "votes"
	connectRetries = 5
)

// channel is the subset of *amqp.Channel used for publishing
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes a VoteCastEvent for every recorded vote
type AMQPPublisher struct {
	ch    channel
	queue string
	now   func() time.Time
	mu    sync.Mutex
}

// Dial connects to the broker, retrying a few times before giving up
func Dial(url string, retryDelay time.Duration) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		if conn, err = amqp.Dial(url); err == nil {
			slog.Info("connected to message broker")
			return conn, nil
		}
		slog.Warn("failed to connect to message broker", "attempt", attempt, "error", err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("could not connect to message broker after %d attempts: %w", connectRetries, err)
}

// NewAMQPPublisher opens a channel on conn and declares a durable queue
func NewAMQPPublisher(conn *amqp.Connection, queue string) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	return newPublisher(ch, queue), nil
}

func newPublisher(ch channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue, now: time.Now}
}

// VotesRecorded publishes one message per vote
func (p *AMQPPublisher) VotesRecorded(ctx context.Context, votes []models.Vote) error {
	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	castAt := p.now().UTC()
	for _, v := range votes {
		body, err := EncodeVoteCast(v, castAt)
		if err != nil {
			return err
		}

		err = p.ch.PublishWithContext(ctx,
			"",
			p.queue,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    castAt,
				Type:         "vote.cast",
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to publish vote %d: %w", v.ID, err)
		}
	}
	return nil
}

// Close closes the underlying channel
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

// EncodeVoteCast builds the JSON message body for a vote
func EncodeVoteCast(v models.Vote, castAt time.Time) ([]byte, error) {
	body, err := json.Marshal(models.VoteCastEvent{
		VoteID:         v.ID,
		StudentID:      v.StudentID,
		OrganizationID: v.OrganizationID,
		PairID:         v.PairID,
		CastAt:         castAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode vote event: %w", err)
	}
	return body, nil
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"binduty-service/internal/logging"
	"binduty-service/internal/models"
)

type Config struct {
	Broker  string
	Topic   string
	GroupID string
}

// TaskQueue accepts parsed trigger tasks.
type TaskQueue interface {
	QueueTask(task models.Task)
}

// Consumer reads reminder and announcement triggers from a Kafka topic.
type Consumer struct {
	reader *kafka.Reader
	queue  TaskQueue
	logger *logging.Logger
}

func NewConsumer(cfg Config, queue TaskQueue, logger *logging.Logger) (*Consumer, error) {
	if cfg.Broker == "" {
		return nil, errors.New("kafka broker is not configured")
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Broker},
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
	})
	return &Consumer{reader: r, queue: queue, logger: logger}, nil
}

// Start consumes messages until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				time.Sleep(time.Second)
				continue
			}

			task, err := ParseTask(msg.Value)
			if err != nil {
				c.logger.Errorf("Invalid message at offset %d: %v", msg.Offset, err)
				continue
			}
			c.queue.QueueTask(task)
			c.logger.WithField("request_id", task.RequestID).Infof("Processed Kafka message of kind %s", task.Kind)
		}
	}()
}

// ParseTask decodes and validates a trigger message. A missing request_id
// is generated.
func ParseTask(raw []byte) (models.Task, error) {
	var task models.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return models.Task{}, fmt.Errorf("unmarshal message failed: %w", err)
	}
	switch task.Kind {
	case models.TaskReminder:
	case models.TaskAnnouncement:
		if task.Subject == "" || task.Message == "" || len(task.ResidentIDs) == 0 {
			return models.Task{}, errors.New("announcement requires subject, message and resident_ids")
		}
	default:
		return models.Task{}, fmt.Errorf("unknown task kind %q", task.Kind)
	}
	if task.RequestID == "" {
		task.RequestID = uuid.New().String()
	} else if _, err := uuid.Parse(task.RequestID); err != nil {
		return models.Task{}, fmt.Errorf("invalid request_id %s: %w", task.RequestID, err)
	}
	if task.Timestamp.IsZero() {
		task.Timestamp = time.Now().UTC()
	}
	return task, nil
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}

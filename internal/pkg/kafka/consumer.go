package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const retryDelay = time.Second

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Workers int
}

type Consumer struct {
	reader  *kafka.Reader
	handler TaskHandler
	workers int
}

func NewConsumer(cfg ConsumerConfig, handler TaskHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		workers: max(cfg.Workers, 1),
	}
}

// Run reads tasks until ctx is cancelled, handling up to Workers of them at
// once, then waits for the ones in flight.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	cfg := c.reader.Config()
	logrus.WithFields(logrus.Fields{
		"brokers":  cfg.Brokers,
		"topic":    cfg.Topic,
		"group_id": cfg.GroupID,
		"workers":  c.workers,
	}).Info("Photo processor consumer started")

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil
		}

		wg.Add(1)
		go func(msg kafka.Message) {
			defer wg.Done()
			defer func() { <-sem }()
			c.handleMessage(ctx, msg)
		}(msg)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	log := logrus.WithFields(logrus.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	task, err := decodeTask(msg.Value)
	if err != nil {
		log.WithError(err).Error("Failed to parse task")
		return
	}

	log = log.WithField("job_id", task.JobID)
	log.Debug("Task received")

	if err := c.handler(ctx, task); err != nil {
		log.WithError(err).Error("Processing failed")
		return
	}
	log.Info("Task processed")
}

func decodeTask(value []byte) (entity.ProcessingTask, error) {
	var task entity.ProcessingTask
	if err := json.Unmarshal(value, &task); err != nil {
		return task, fmt.Errorf("unmarshal task: %w", err)
	}
	if task.JobID == "" {
		return task, errors.New("task without job id")
	}
	return task, nil
}

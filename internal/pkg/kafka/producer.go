package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
)

// TaskHandler processes one task. It is what the consumer runs for every
// message, and what the producer runs itself when Kafka is unreachable.
type TaskHandler func(ctx context.Context, task entity.ProcessingTask) error

type Producer interface {
	SendMessage(ctx context.Context, task entity.ProcessingTask) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer connects to the brokers and makes sure the topic exists. If no
// broker answers, tasks are dispatched to fallback in-process instead.
func NewProducer(brokers []string, topic string, fallback TaskHandler) Producer {
	log := logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic})

	if len(brokers) == 0 {
		log.Warn("No Kafka brokers configured, processing tasks in-process")
		return newInlineProducer(fallback)
	}

	// Проверяем подключение и создаем топик
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		log.WithError(err).Warn("Kafka connection failed, processing tasks in-process")
		return newInlineProducer(fallback)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.WithError(err).Info("Could not create topic (might already exist)")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.Info("Connected to Kafka")
	return &kafkaProducer{writer: writer, topic: topic}
}

func (p *kafkaProducer) SendMessage(ctx context.Context, task entity.ProcessingTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.JobID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write task %s to %s: %w", task.JobID, p.topic, err)
	}

	logrus.WithFields(logrus.Fields{
		"job_id": task.JobID,
		"topic":  p.topic,
	}).Debug("Task sent to Kafka")
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// inlineProducer runs tasks in background goroutines of this process.
type inlineProducer struct {
	handler TaskHandler
	wg      sync.WaitGroup
}

func newInlineProducer(handler TaskHandler) *inlineProducer {
	return &inlineProducer{handler: handler}
}

func (p *inlineProducer) SendMessage(ctx context.Context, task entity.ProcessingTask) error {
	if p.handler == nil {
		return fmt.Errorf("no task handler for job %s", task.JobID)
	}

	// The task outlives the request that submitted it.
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.handler(ctx, task); err != nil {
			logrus.WithError(err).WithField("job_id", task.JobID).Error("In-process task failed")
		}
	}()
	return nil
}

// Close waits for in-flight tasks.
func (p *inlineProducer) Close() error {
	p.wg.Wait()
	return nil
}

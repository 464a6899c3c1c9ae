package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_FallsBackToInline(t *testing.T) {
	var (
		mu  sync.Mutex
		got []entity.ProcessingTask
	)
	handler := func(ctx context.Context, task entity.ProcessingTask) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, task)
		return nil
	}

	// Nothing listens on port 1.
	p := NewProducer([]string{"127.0.0.1:1"}, "photo-processing", handler)
	require.IsType(t, &inlineProducer{}, p)

	task := entity.ProcessingTask{JobID: "job-1", Options: entity.ProcessingConfig{TargetWidth: 800}}
	require.NoError(t, p.SendMessage(context.Background(), task))
	require.NoError(t, p.Close())

	assert.Equal(t, []entity.ProcessingTask{task}, got)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	p := NewProducer(nil, "photo-processing", nil)
	require.IsType(t, &inlineProducer{}, p)

	err := p.SendMessage(context.Background(), entity.ProcessingTask{JobID: "job-2"})
	assert.Error(t, err)
}

func TestInlineProducer_OutlivesRequestContext(t *testing.T) {
	started := make(chan struct{})
	var handlerCtxErr error
	p := newInlineProducer(func(ctx context.Context, task entity.ProcessingTask) error {
		<-started
		handlerCtxErr = ctx.Err()
		return errors.New("ignored")
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.SendMessage(ctx, entity.ProcessingTask{JobID: "job-3"}))
	cancel()
	close(started)

	require.NoError(t, p.Close())
	assert.NoError(t, handlerCtxErr)
}

func TestDecodeTask(t *testing.T) {
	task, err := decodeTask([]byte(`{"job_id":"abc","options":{"remove_background":true,"target_width":800,"target_height":600,"target_size_kb":100}}`))
	require.NoError(t, err)
	assert.Equal(t, entity.ProcessingTask{
		JobID: "abc",
		Options: entity.ProcessingConfig{
			RemoveBackground: true,
			TargetWidth:      800,
			TargetHeight:     600,
			TargetSizeKB:     100,
		},
	}, task)

	_, err = decodeTask([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeTask([]byte(`{"options":{}}`))
	assert.Error(t, err)
}

func TestConsumer_HandleMessage(t *testing.T) {
	var handled []string
	c := &Consumer{handler: func(ctx context.Context, task entity.ProcessingTask) error {
		handled = append(handled, task.JobID)
		return nil
	}, workers: 1}

	c.handleMessage(context.Background(), kafka.Message{Value: []byte(`{"job_id":"a"}`), Time: time.Now()})
	c.handleMessage(context.Background(), kafka.Message{Value: []byte(`broken`)})
	c.handleMessage(context.Background(), kafka.Message{Value: []byte(`{"job_id":"b"}`)})

	assert.Equal(t, []string{"a", "b"}, handled)
}

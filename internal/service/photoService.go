package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/database"
	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *photoService) Process(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.EncodedResult, error) {
	return s.processor.Process(ctx, r, cfg)
}

func (s *photoService) Submit(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &entity.Job{
		ID:        uuid.NewString(),
		Status:    entity.StatusProcessing,
		Options:   cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Сохраняем файл до записи задачи, чтобы воркер его точно нашел
	if err := s.repo.SaveFile(job.ID, database.FileOriginal, r); err != nil {
		return nil, fmt.Errorf("save original: %w", err)
	}
	if err := s.repo.Save(job); err != nil {
		// Без метаданных оригинал никто не удалит
		if delErr := s.repo.Delete(job.ID); delErr != nil && !errors.Is(delErr, entity.ErrJobNotFound) {
			logrus.WithError(delErr).WithField("job_id", job.ID).Warn("Failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("save job: %w", err)
	}

	// Отправляем в Kafka для обработки
	task := entity.ProcessingTask{JobID: job.ID, Options: cfg}
	if err := s.producer.SendMessage(ctx, task); err != nil {
		job.Status = entity.StatusFailed
		job.Error = "failed to queue job"
		job.UpdatedAt = time.Now().UTC()
		_ = s.repo.Save(job)
		return nil, fmt.Errorf("queue job: %w", err)
	}

	return job, nil
}

func (s *photoService) GetJob(id string) (*entity.Job, error) {
	return s.repo.FindByID(id)
}

func (s *photoService) OpenResult(id string) (io.ReadCloser, *entity.Job, error) {
	job, err := s.repo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != entity.StatusCompleted {
		return nil, job, fmt.Errorf("%w: job is %s", entity.ErrResultNotReady, job.Status)
	}

	rc, err := s.repo.OpenFile(id, database.FileResult)
	if err != nil {
		return nil, job, err
	}
	return rc, job, nil
}

func (s *photoService) DeleteJob(id string) error {
	return s.repo.Delete(id)
}

package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/database"
	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/sirupsen/logrus"
)

type Processor interface {
	Process(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.EncodedResult, error)
}

// JobHandler runs the pipeline for one queued job and records the outcome.
type JobHandler struct {
	repo      database.JobRepository
	processor Processor
}

func NewJobHandler(repo database.JobRepository, processor Processor) *JobHandler {
	return &JobHandler{repo: repo, processor: processor}
}

func (h *JobHandler) Handle(ctx context.Context, task entity.ProcessingTask) error {
	log := logrus.WithField("job_id", task.JobID)

	job, err := h.repo.FindByID(task.JobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", task.JobID, err)
	}
	// Redelivered message for a job that already finished.
	if job.Status != entity.StatusProcessing {
		log.WithField("status", job.Status).Info("Job already handled, skipping")
		return nil
	}

	result, err := h.process(ctx, task)
	if err != nil {
		h.fail(log, job, err)
		return err
	}

	// Сохраняем результат
	if err := h.repo.SaveFile(job.ID, database.FileResult, bytes.NewReader(result.Data)); err != nil {
		err = fmt.Errorf("save result: %w", err)
		h.fail(log, job, err)
		return err
	}

	job.Status = entity.StatusCompleted
	job.ResultSize = result.Size
	job.Quality = result.Quality
	job.Fallback = result.Fallback
	job.Width = result.Width
	job.Height = result.Height
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()

	if err := h.repo.Save(job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	log.WithFields(logrus.Fields{
		"bytes":   result.Size,
		"quality": result.Quality,
	}).Info("Job completed")
	return nil
}

func (h *JobHandler) fail(log *logrus.Entry, job *entity.Job, cause error) {
	job.Status = entity.StatusFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	if err := h.repo.Save(job); err != nil {
		log.WithError(err).Error("Failed to mark job as failed")
	}
}

func (h *JobHandler) process(ctx context.Context, task entity.ProcessingTask) (*entity.EncodedResult, error) {
	original, err := h.repo.OpenFile(task.JobID, database.FileOriginal)
	if err != nil {
		return nil, fmt.Errorf("open original: %w", err)
	}
	defer original.Close()

	return h.processor.Process(ctx, original, task.Options)
}

package service

import (
	"context"
	"io"

	"github.com/ds124wfegd/pasphoto/internal/database"
	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/pkg/kafka"
)

type Processor interface {
	Process(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.EncodedResult, error)
}

type PhotoService interface {
	// Process runs the pipeline synchronously on one upload.
	Process(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.EncodedResult, error)
	// Submit stores the upload and queues it for the worker.
	Submit(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.Job, error)
	GetJob(id string) (*entity.Job, error)
	// OpenResult returns the processed JPEG of a completed job.
	OpenResult(id string) (io.ReadCloser, *entity.Job, error)
	DeleteJob(id string) error
}

type photoService struct {
	repo      database.JobRepository
	producer  kafka.Producer
	processor Processor
}

func NewPhotoService(repo database.JobRepository, producer kafka.Producer, processor Processor) PhotoService {
	return &photoService{
		repo:      repo,
		producer:  producer,
		processor: processor,
	}
}

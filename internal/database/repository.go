package database

import (
	"io"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/pkg/storage"
)

// Blobs stored per job.
const (
	FileOriginal = "original"
	FileResult   = "result.jpg"
)

type JobRepository interface {
	Save(job *entity.Job) error
	FindByID(id string) (*entity.Job, error)
	Delete(id string) error
	SaveFile(id, name string, file io.Reader) error
	OpenFile(id, name string) (io.ReadCloser, error)
}

type fileJobRepository struct {
	storage storage.FileStorage
}

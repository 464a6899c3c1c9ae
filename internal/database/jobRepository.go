package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/pkg/storage"
	"github.com/google/uuid"
)

const metadataFile = "job.json"

// NewJobRepository lays jobs out as jobs/<id>/{job.json, original, result.jpg}.
func NewJobRepository(storage storage.FileStorage) JobRepository {
	return &fileJobRepository{storage: storage}
}

func (r *fileJobRepository) Save(job *entity.Job) error {
	if err := validateID(job.ID); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	return r.storage.Save(jobPath(job.ID, metadataFile), bytes.NewReader(data))
}

func (r *fileJobRepository) FindByID(id string) (*entity.Job, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	reader, err := r.storage.Get(jobPath(id, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entity.ErrJobNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var job entity.Job
	if err := json.NewDecoder(reader).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}

	return &job, nil
}

func (r *fileJobRepository) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	// Files of a job whose metadata was never written are removed as well.
	known := r.storage.Exists(jobPath(id, metadataFile))
	if err := r.storage.Delete(path.Join("jobs", id)); err != nil {
		return err
	}
	if !known {
		return entity.ErrJobNotFound
	}
	return nil
}

func (r *fileJobRepository) SaveFile(id, name string, file io.Reader) error {
	if err := validateID(id); err != nil {
		return err
	}
	return r.storage.Save(jobPath(id, name), file)
}

func (r *fileJobRepository) OpenFile(id, name string) (io.ReadCloser, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	reader, err := r.storage.Get(jobPath(id, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", entity.ErrJobNotFound, id, name)
	}
	return reader, err
}

func jobPath(id, name string) string {
	return path.Join("jobs", id, name)
}

// IDs are UUIDs; anything else never reaches the filesystem.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrJobNotFound
	}
	return nil
}

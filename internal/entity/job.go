package entity

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	ResultFileName = "processed_image.jpg"
	ResultMimeType = "image/jpeg"
)

type Job struct {
	ID         string           `json:"id"`
	Status     string           `json:"status"`
	Options    ProcessingConfig `json:"options"`
	ResultSize int              `json:"result_size,omitempty"`
	Quality    int              `json:"quality,omitempty"`
	Fallback   bool             `json:"fallback,omitempty"`
	Width      int              `json:"width,omitempty"`
	Height     int              `json:"height,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type ProcessingTask struct {
	JobID   string           `json:"job_id"`
	Options ProcessingConfig `json:"options"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

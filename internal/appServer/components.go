package appServer

import (
	"fmt"
	"image/color"

	"github.com/ds124wfegd/pasphoto/config"
	"github.com/ds124wfegd/pasphoto/internal/database"
	"github.com/ds124wfegd/pasphoto/internal/pkg/detector"
	"github.com/ds124wfegd/pasphoto/internal/pkg/pipeline"
	"github.com/ds124wfegd/pasphoto/internal/pkg/segmenter"
	"github.com/ds124wfegd/pasphoto/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

func SetupLogging(cfg config.LogConfig) {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// NewPipeline wires the segmenter, face detector and canvas colour from cfg.
// An empty cascade path selects the bundled cascade. A cascade that fails to
// load does not stop startup; every request that reaches face detection then
// fails with ErrDetectorUnavailable.
func NewPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	var canvas color.Color = pipeline.DefaultCanvas
	if cfg.Pipeline.CanvasColor != "" {
		c, err := pipeline.ParseCanvasColor(cfg.Pipeline.CanvasColor)
		if err != nil {
			return nil, fmt.Errorf("pipeline config: %w", err)
		}
		canvas = c
	}

	var seg segmenter.Segmenter
	if cfg.Segmenter.Enabled {
		seg = segmenter.NewRembgClient(cfg.Segmenter.BaseURL, cfg.Segmenter.Timeout)
	} else {
		logrus.Warn("Segmenter disabled, background removal requests will fail")
	}

	var det detector.FaceDetector
	pigoDetector, err := loadDetector(cfg.Detector.CascadePath)
	if err != nil {
		logrus.WithError(err).WithField("cascade_path", cfg.Detector.CascadePath).Error("Face detector unavailable")
		det = detector.Unavailable(err)
	} else {
		det = pigoDetector
	}

	return pipeline.New(seg, det, canvas), nil
}

func loadDetector(cascadePath string) (*detector.PigoDetector, error) {
	if cascadePath == "" {
		return detector.NewDefaultPigoDetector()
	}
	return detector.NewPigoDetector(cascadePath)
}

func NewJobRepository(cfg config.StorageConfig) database.JobRepository {
	return database.NewJobRepository(storage.NewFileStorage(cfg.BasePath))
}

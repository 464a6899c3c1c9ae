package segmenter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const removePath = "/api/remove"

// RembgClient calls a rembg HTTP server ("rembg s") to cut out the foreground.
type RembgClient struct {
	client *resty.Client
}

func NewRembgClient(baseURL string, timeout time.Duration) *RembgClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "image/png")

	return &RembgClient{client: client}
}

func (c *RembgClient) Segment(ctx context.Context, img image.Image) (image.Image, error) {
	var body bytes.Buffer
	if err := imaging.Encode(&body, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode request image: %w", err)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", "image.png", &body).
		Post(removePath)
	if err != nil {
		return nil, fmt.Errorf("rembg request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("rembg returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	logrus.WithFields(logrus.Fields{
		"bytes":    len(resp.Body()),
		"duration": time.Since(start),
	}).Debug("Background segmented")

	out, err := imaging.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("decode rembg response: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

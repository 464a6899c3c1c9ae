package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProcessingConfig
		wantErr bool
	}{
		{name: "defaults of the upload form", cfg: ProcessingConfig{TargetWidth: 800, TargetHeight: 600, TargetSizeKB: 100}},
		{name: "zero width", cfg: ProcessingConfig{TargetWidth: 0, TargetHeight: 600, TargetSizeKB: 100}, wantErr: true},
		{name: "negative height", cfg: ProcessingConfig{TargetWidth: 800, TargetHeight: -1, TargetSizeKB: 100}, wantErr: true},
		{name: "zero size", cfg: ProcessingConfig{TargetWidth: 800, TargetHeight: 600}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTargetBytes(t *testing.T) {
	assert.Equal(t, 102400, ProcessingConfig{TargetSizeKB: 100}.TargetBytes())
}

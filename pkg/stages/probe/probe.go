// Package probe implements the output inspection stage.
package probe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// Stage reads container metadata from the finished video.
type Stage struct {
	prober ports.VideoProber
	logger ports.Logger
}

// New creates a new probe stage.
func New(prober ports.VideoProber, logger ports.Logger) *Stage {
	return &Stage{
		prober: prober,
		logger: logger.WithComponent("probe"),
	}
}

// Probeable reports whether the prober can read the container at path.
// Only the ISO BMFF family (mp4, mov) is supported.
func Probeable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov":
		return true
	}
	return false
}

// Execute probes input.Path. Unsupported containers are skipped, not failed.
func (s *Stage) Execute(ctx context.Context, input pipeline.ProbeInput) (pipeline.ProbeResult, error) {
	var result pipeline.ProbeResult
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !Probeable(input.Path) {
		s.logger.Debug("Skipping probe of %s", input.Path)
		result.Skipped = true
		return result, nil
	}

	info, err := s.prober.Probe(input.Path)
	if err != nil {
		return result, fmt.Errorf("probe %s: %w", input.Path, err)
	}
	result.Video = *info

	s.logger.Debug("Video probed: %d frames, %d ms, %dx%d", info.FrameCount, info.DurationMs, info.Width, info.Height)
	return result, nil
}

package matrix

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/matrixgen/internal/common"
	"github.com/ternarybob/matrixgen/internal/interfaces"
	"github.com/ternarybob/matrixgen/internal/matrix"
)

// Service implements interfaces.MatrixService
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.MatrixService = (*Service)(nil)

// NewService creates a new matrix service, falling back to the global logger when logger is nil
func NewService(logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		logger: logger,
	}
}

// Generate classifies the configured targets in declaration order.
// Classification never fails; the only error is a cancelled context.
func (s *Service) Generate(ctx context.Context, config *common.Config) (matrix.Document, error) {
	targets := config.Toolchain.Targets
	profile := config.Toolchain.Profile

	s.logger.Info().
		Int("target_count", len(targets)).
		Str("profile", profile).
		Msg("Generating build matrix")

	doc, err := matrix.GenerateEach(targets, profile, func(platform matrix.Platform) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("matrix generation cancelled: %w", err)
		}

		s.logger.Debug().
			Str("target", platform.Target).
			Str("os", platform.OS.String()).
			Str("arch", platform.Arch.String()).
			Msg("Classified target")

		if platform.OS == matrix.OSUnknown {
			s.logger.Debug().Str("target", platform.Target).Msg("No OS family matched, build tool left empty")
		}
		return nil
	})
	if err != nil {
		return matrix.Document{}, err
	}

	s.logger.Info().
		Int("include_count", len(doc.Include)).
		Msg("Build matrix generated")

	return doc, nil
}

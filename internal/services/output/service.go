// -----------------------------------------------------------------------
// Package output announces the build matrix to CI
// -----------------------------------------------------------------------

package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/matrixgen/internal/common"
	"github.com/ternarybob/matrixgen/internal/interfaces"
	"github.com/ternarybob/matrixgen/internal/matrix"
)

// GitHubOutputKey is the output name the workflow reads the matrix from
const GitHubOutputKey = "matrix"

// ErrNoGitHubOutputPath is returned when the github-output format has no file to write to
var ErrNoGitHubOutputPath = errors.New("github-output format requires a path (set GITHUB_OUTPUT or --github-output)")

// Service implements interfaces.OutputService
type Service struct {
	stdout io.Writer
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.OutputService = (*Service)(nil)

// NewService creates an output service writing announcements to stdout.
// A nil logger falls back to the global logger.
func NewService(stdout io.Writer, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		stdout: stdout,
		logger: logger,
	}
}

// Emit renders the document completely before writing, so a failure never leaves a partial line
func (s *Service) Emit(ctx context.Context, config common.OutputConfig, doc matrix.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch config.Format {
	case common.OutputFormatSetOutput, "":
		line, err := doc.Announcement()
		if err != nil {
			return err
		}
		return s.write(line + "\n")

	case common.OutputFormatGitHubOutput:
		return s.appendGitHubOutput(config.GitHubOutputPath, doc)

	case common.OutputFormatYAML:
		data, err := RenderYAML(doc)
		if err != nil {
			return err
		}
		return s.write(string(data))

	default:
		return fmt.Errorf("unknown output format: %s", config.Format)
	}
}

func (s *Service) write(text string) error {
	if _, err := io.WriteString(s.stdout, text); err != nil {
		return fmt.Errorf("failed to write matrix: %w", err)
	}
	s.logger.Debug().Int("bytes", len(text)).Msg("Matrix written to stdout")
	return nil
}

// appendGitHubOutput appends "matrix=<json>" to the step output file
func (s *Service) appendGitHubOutput(path string, doc matrix.Document) error {
	if path == "" {
		return ErrNoGitHubOutputPath
	}

	data, err := doc.JSON()
	if err != nil {
		return err
	}
	entry := GitHubOutputKey + "=" + string(data) + "\n"

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open github output file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write github output file %s: %w", path, err)
	}

	s.logger.Info().
		Str("path", path).
		Int("include_count", len(doc.Include)).
		Msg("Matrix written to github output file")

	return file.Close()
}

// RenderYAML renders the document as YAML for local inspection
func RenderYAML(doc matrix.Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render matrix as yaml: %w", err)
	}
	return data, nil
}

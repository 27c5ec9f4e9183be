package interfaces

import (
	"context"

	"github.com/ternarybob/matrixgen/internal/common"
	"github.com/ternarybob/matrixgen/internal/matrix"
)

// MatrixService builds the CI build matrix from a loaded configuration
type MatrixService interface {
	// Generate classifies every configured target and returns the matrix document
	Generate(ctx context.Context, config *common.Config) (matrix.Document, error)
}

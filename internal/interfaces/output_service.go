package interfaces

import (
	"context"

	"github.com/ternarybob/matrixgen/internal/common"
	"github.com/ternarybob/matrixgen/internal/matrix"
)

// OutputService announces a matrix document to CI
type OutputService interface {
	// Emit writes the document in the configured format
	Emit(ctx context.Context, config common.OutputConfig, doc matrix.Document) error
}

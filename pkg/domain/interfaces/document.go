package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/horai/pkg/domain/types"
)

// DocumentStore accepts one binary artifact per closed period: the signed
// cartography document collected during the closing workflow.
type DocumentStore interface {
	// Put stores the document for the period and returns a stable reference.
	Put(ctx context.Context, periodID types.PeriodID, filename string, r io.Reader) (string, error)
}

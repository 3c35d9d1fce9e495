package receiving

import (
	"github.com/google/uuid"

	"github.com/libsys/acquisitions/internal/domain/orders"
)

// Request is a receiving batch: received-item events grouped by order line
type Request struct {
	ToBeReceived []LineBatch
}

// LineBatch carries the events addressed to the pieces of one order line
type LineBatch struct {
	LineID uuid.UUID
	Items  []orders.ReceivedItem
}

// Results reports the per-line outcome of a receiving batch
type Results struct {
	Lines        []LineResult
	TotalRecords int
}

// LineResult tallies successes and failures for one line's pieces
type LineResult struct {
	LineID                uuid.UUID
	ProcessedSuccessfully int
	ProcessedWithError    int
	Pieces                []PieceResult
}

// PieceResult is the outcome for one requested piece
type PieceResult struct {
	PieceID uuid.UUID
	Success bool
	Code    string
}

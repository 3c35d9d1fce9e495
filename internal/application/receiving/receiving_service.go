package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libsys/acquisitions/internal/domain/catalog"
	"github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
	"github.com/libsys/acquisitions/internal/infrastructure/telemetry"
)

// ReceiptProcessor customizes how one receiving flavor treats a piece.
// Check-in style workflows plug in their own implementation.
type ReceiptProcessor interface {
	// IsRevertedToOnOrder reports whether the item status represents an
	// undo-of-receipt, rolling the piece back to Expected
	IsRevertedToOnOrder(status string) bool

	// ApplyOverrides folds the event's override fields into the piece
	ApplyOverrides(piece *orders.Piece, event orders.ReceivedItem)
}

// StandardProcessor is the plain receiving flavor
type StandardProcessor struct{}

// IsRevertedToOnOrder reports whether the status rolled back to on-order
func (StandardProcessor) IsRevertedToOnOrder(status string) bool {
	return status == catalog.ItemStatusOnOrder
}

// ApplyOverrides applies the caption, comment and location overrides that
// are present on the event
func (StandardProcessor) ApplyOverrides(piece *orders.Piece, event orders.ReceivedItem) {
	if event.Caption != "" {
		piece.Caption = event.Caption
	}
	if event.Comment != "" {
		piece.Comment = event.Comment
	}
	if event.LocationID != nil {
		piece.LocationID = event.LocationID
	}
}

// ReceivingService reconciles a batch of received-item events against
// stored pieces and the inventory. One piece's failure never blocks its
// siblings; outcomes are tallied per line against the request shape.
type ReceivingService struct {
	storage   orders.Storage
	inventory catalog.Inventory
	processor ReceiptProcessor
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(storage orders.Storage, inventory catalog.Inventory, processor ReceiptProcessor, logger *zap.Logger) *ReceivingService {
	if processor == nil {
		processor = StandardProcessor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{
		storage:   storage,
		inventory: inventory,
		processor: processor,
		logger:    logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReceivingService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// unit pairs one event with its loaded piece and records its outcome.
// Each unit is a disjoint slot written by exactly one branch.
type unit struct {
	piece  *orders.Piece
	event  orders.ReceivedItem
	failed bool
	code   string
}

// Receive processes a batch of received-item events. Storage failures are
// terminal; per-piece inventory failures are reflected only in the tallies.
func (s *ReceivingService) Receive(ctx context.Context, req Request) (*Results, error) {
	events := groupByLine(req)

	pieceIDs := make([]uuid.UUID, 0)
	for _, byPiece := range events {
		for pieceID := range byPiece {
			pieceIDs = append(pieceIDs, pieceID)
		}
	}
	s.logger.Debug("receiving pieces",
		zap.Int("pieces", len(pieceIDs)),
		zap.Int("lines", len(events)),
	)

	pieces, err := s.storage.GetPieces(ctx, pieceIDs)
	if err != nil {
		return nil, err
	}

	units := make([]*unit, 0, len(pieces))
	unitByKey := make(map[uuid.UUID]*unit, len(pieces))
	for i := range pieces {
		piece := &pieces[i]
		event, ok := events[piece.LineID][piece.ID]
		if !ok {
			continue
		}
		u := &unit{piece: piece, event: event}
		units = append(units, u)
		unitByKey[piece.ID] = u
	}

	// Fan out per piece; branches record their outcome and never fail the join
	var g errgroup.Group
	for _, u := range units {
		g.Go(func() error {
			s.processUnit(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	mutated := make([]orders.Piece, 0, len(units))
	for _, u := range units {
		if !u.failed {
			mutated = append(mutated, *u.piece)
		}
	}
	if len(mutated) > 0 {
		if err := s.storage.SavePieces(ctx, mutated); err != nil {
			return nil, err
		}
	}

	return s.tally(ctx, req, unitByKey), nil
}

// History returns a page of the receiving history view from storage
func (s *ReceivingService) History(ctx context.Context, limit, offset int, query string) (*orders.ReceivingHistory, error) {
	return s.storage.GetReceivingHistory(ctx, limit, offset, query)
}

// processUnit applies one event. A piece with a catalog item first updates
// that item; when the update fails the piece is left untouched and the unit
// counts as a failure. A piece without an item applies the receipt locally
// and cannot fail.
func (s *ReceivingService) processUnit(ctx context.Context, u *unit) {
	status := u.event.ItemStatus

	if u.piece.ItemID != nil {
		updated, err := s.inventory.UpdateItem(ctx, *u.piece.ItemID, catalog.ItemUpdate{
			Status:     u.event.ItemStatus,
			Caption:    u.event.Caption,
			Comment:    u.event.Comment,
			LocationID: u.event.LocationID,
		})
		if err != nil {
			s.logger.Error("item associated with piece cannot be updated",
				zap.String("piece_id", u.piece.ID.String()),
				zap.Error(err),
			)
			u.failed = true
			u.code = shared.ErrItemUpdateFailed.Code
			return
		}
		status = updated
	}

	s.processor.ApplyOverrides(u.piece, u.event)

	// The piece is either received or rolled back to Expected
	if s.processor.IsRevertedToOnOrder(status) {
		u.piece.ReceivedDate = nil
		u.piece.ReceivingStatus = orders.ReceivingExpected
	} else {
		now := time.Now()
		u.piece.ReceivedDate = &now
		u.piece.ReceivingStatus = orders.ReceivingReceived
	}
}

// tally classifies every requested piece id as exactly one success or
// failure, keyed to the caller's request shape rather than the loaded set
func (s *ReceivingService) tally(ctx context.Context, req Request, unitByKey map[uuid.UUID]*unit) *Results {
	results := &Results{}
	totalSucceeded, totalFailed := 0, 0

	for _, batch := range req.ToBeReceived {
		lineResult := LineResult{LineID: batch.LineID}
		for _, event := range batch.Items {
			pieceResult := PieceResult{PieceID: event.PieceID}
			u, loaded := unitByKey[event.PieceID]
			switch {
			case !loaded:
				pieceResult.Code = shared.ErrNotFound.Code
			case u.failed:
				pieceResult.Code = u.code
			default:
				pieceResult.Success = true
			}

			if pieceResult.Success {
				lineResult.ProcessedSuccessfully++
			} else {
				lineResult.ProcessedWithError++
			}
			lineResult.Pieces = append(lineResult.Pieces, pieceResult)
		}
		totalSucceeded += lineResult.ProcessedSuccessfully
		totalFailed += lineResult.ProcessedWithError
		results.Lines = append(results.Lines, lineResult)
		results.TotalRecords++
	}

	s.metrics.RecordReceiving(ctx, totalSucceeded, totalFailed)
	return results
}

// groupByLine converts the request to a line id -> piece id -> event map.
// The map is threaded through as an explicit argument, never held as state.
func groupByLine(req Request) map[uuid.UUID]map[uuid.UUID]orders.ReceivedItem {
	grouped := make(map[uuid.UUID]map[uuid.UUID]orders.ReceivedItem, len(req.ToBeReceived))
	for _, batch := range req.ToBeReceived {
		byPiece := grouped[batch.LineID]
		if byPiece == nil {
			byPiece = make(map[uuid.UUID]orders.ReceivedItem, len(batch.Items))
			grouped[batch.LineID] = byPiece
		}
		for _, event := range batch.Items {
			byPiece[event.PieceID] = event
		}
	}
	return grouped
}

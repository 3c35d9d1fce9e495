package dto

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/libsys/acquisitions/internal/application/receiving"
	"github.com/libsys/acquisitions/internal/domain/orders"
)

// ReceivingRequest is a batch of received-item events grouped by order line
type ReceivingRequest struct {
	ToBeReceived []ReceivingLineBatch `json:"toBeReceived" binding:"required,min=1,dive"`
	TotalRecords int                  `json:"totalRecords"`
}

// ReceivingLineBatch carries the events addressed to one line's pieces
type ReceivingLineBatch struct {
	PoLineID      string                `json:"poLineId" binding:"required,uuid"`
	ReceivedItems []ReceivedItemRequest `json:"receivedItems" binding:"required,min=1,dive"`
}

// ReceivedItemRequest is one receiving event
type ReceivedItemRequest struct {
	PieceID    string `json:"pieceId" binding:"required,uuid"`
	ItemStatus string `json:"itemStatus" binding:"required"`
	Caption    string `json:"caption"`
	Comment    string `json:"comment"`
	LocationID string `json:"locationId" binding:"omitempty,uuid"`
}

// ToDomain converts the request to the application receiving batch
func (r *ReceivingRequest) ToDomain() (receiving.Request, error) {
	req := receiving.Request{}
	for _, batch := range r.ToBeReceived {
		lineID, err := uuid.Parse(batch.PoLineID)
		if err != nil {
			return receiving.Request{}, fmt.Errorf("invalid line id %q: %w", batch.PoLineID, err)
		}
		domainBatch := receiving.LineBatch{LineID: lineID}
		for _, item := range batch.ReceivedItems {
			event, err := item.toDomain()
			if err != nil {
				return receiving.Request{}, err
			}
			domainBatch.Items = append(domainBatch.Items, event)
		}
		req.ToBeReceived = append(req.ToBeReceived, domainBatch)
	}
	return req, nil
}

func (r *ReceivedItemRequest) toDomain() (orders.ReceivedItem, error) {
	pieceID, err := uuid.Parse(r.PieceID)
	if err != nil {
		return orders.ReceivedItem{}, fmt.Errorf("invalid piece id %q: %w", r.PieceID, err)
	}
	event := orders.ReceivedItem{
		PieceID:    pieceID,
		ItemStatus: r.ItemStatus,
		Caption:    r.Caption,
		Comment:    r.Comment,
	}
	if r.LocationID != "" {
		locationID, err := uuid.Parse(r.LocationID)
		if err != nil {
			return orders.ReceivedItem{}, fmt.Errorf("invalid location id %q: %w", r.LocationID, err)
		}
		event.LocationID = &locationID
	}
	return event, nil
}

// ReceivingResults is the wire shape of a receiving batch outcome
type ReceivingResults struct {
	ReceivingResults []ReceivingLineResult `json:"receivingResults"`
	TotalRecords     int                   `json:"totalRecords"`
}

// ReceivingLineResult tallies one line's outcomes
type ReceivingLineResult struct {
	PoLineID              string                 `json:"poLineId"`
	ProcessedSuccessfully int                    `json:"processedSuccessfully"`
	ProcessedWithError    int                    `json:"processedWithError"`
	ReceivingItemResults  []ReceivingPieceResult `json:"receivingItemResults"`
}

// ReceivingPieceResult is one requested piece's outcome
type ReceivingPieceResult struct {
	PieceID string `json:"pieceId"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
}

// NewReceivingResults converts application results to the wire shape
func NewReceivingResults(results *receiving.Results) ReceivingResults {
	out := ReceivingResults{
		TotalRecords:     results.TotalRecords,
		ReceivingResults: make([]ReceivingLineResult, 0, len(results.Lines)),
	}
	for _, line := range results.Lines {
		lineResult := ReceivingLineResult{
			PoLineID:              line.LineID.String(),
			ProcessedSuccessfully: line.ProcessedSuccessfully,
			ProcessedWithError:    line.ProcessedWithError,
		}
		for _, piece := range line.Pieces {
			lineResult.ReceivingItemResults = append(lineResult.ReceivingItemResults, ReceivingPieceResult{
				PieceID: piece.PieceID.String(),
				Success: piece.Success,
				Code:    piece.Code,
			})
		}
		out.ReceivingResults = append(out.ReceivingResults, lineResult)
	}
	return out
}

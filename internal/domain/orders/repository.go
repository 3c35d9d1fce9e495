package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage is the remote acquisitions storage collaborator. It owns the
// durable copies of orders, order lines and pieces; this service only
// orchestrates against it.
type Storage interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	IsNumberUnique(ctx context.Context, number string) (bool, error)
	UpdateOrderSummary(ctx context.Context, summary OrderSummary) error

	GetLines(ctx context.Context, orderID uuid.UUID) ([]LineItem, error)
	CreateLine(ctx context.Context, line LineItem) (uuid.UUID, error)
	UpdateLine(ctx context.Context, line LineItem) error
	DeleteLine(ctx context.Context, id uuid.UUID) error

	GetPieces(ctx context.Context, ids []uuid.UUID) ([]Piece, error)
	SavePieces(ctx context.Context, pieces []Piece) error

	GetReceivingHistory(ctx context.Context, limit, offset int, query string) (*ReceivingHistory, error)
}

// ReceivingHistoryEntry is one row of the receiving history view
type ReceivingHistoryEntry struct {
	PieceID         uuid.UUID       `json:"pieceId"`
	LineID          uuid.UUID       `json:"poLineId"`
	Title           string          `json:"title,omitempty"`
	LineNumber      string          `json:"poLineNumber,omitempty"`
	ReceivingStatus ReceivingStatus `json:"receivingStatus"`
	ReceivedDate    *time.Time      `json:"receivedDate,omitempty"`
	Caption         string          `json:"caption,omitempty"`
	Comment         string          `json:"comment,omitempty"`
}

// ReceivingHistory is a page of receiving history entries
type ReceivingHistory struct {
	TotalRecords int                     `json:"totalRecords"`
	Entries      []ReceivingHistoryEntry `json:"receivingHistory"`
}

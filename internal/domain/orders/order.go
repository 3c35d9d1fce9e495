package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkflowStatus represents the workflow state of a purchase order
type WorkflowStatus string

const (
	WorkflowDraft  WorkflowStatus = "DRAFT"
	WorkflowActive WorkflowStatus = "ACTIVE"
	WorkflowClosed WorkflowStatus = "CLOSED"
)

// IsValid checks if the status is a valid WorkflowStatus
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowDraft, WorkflowActive, WorkflowClosed:
		return true
	}
	return false
}

// String returns the string representation of WorkflowStatus
func (s WorkflowStatus) String() string {
	return string(s)
}

// ReceiptStatus represents the receipt state of an order line
type ReceiptStatus string

const (
	ReceiptPending           ReceiptStatus = "PENDING"
	ReceiptAwaiting          ReceiptStatus = "AWAITING_RECEIPT"
	ReceiptPartiallyReceived ReceiptStatus = "PARTIALLY_RECEIVED"
	ReceiptFullyReceived     ReceiptStatus = "FULLY_RECEIVED"
)

// ReceivingStatus represents the state of a single piece
type ReceivingStatus string

const (
	ReceivingExpected ReceivingStatus = "EXPECTED"
	ReceivingReceived ReceivingStatus = "RECEIVED"
)

// ProductID is a bibliographic identifier typed by its scheme name (ISBN, ISSN, ...)
type ProductID struct {
	Type  string
	Value string
}

// Location allocates an expected physical quantity to a permanent location
type Location struct {
	LocationID uuid.UUID
	Quantity   int
}

// Cost carries the list price of one unit of the line's resource
type Cost struct {
	ListPrice decimal.Decimal
	Currency  string
}

// LineItem is one ordered title within a purchase order
type LineItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	Number          string
	ReceiptStatus   ReceiptStatus
	InstanceID      *uuid.UUID
	Source          string
	Title           string
	Publisher       string
	PublicationDate string
	Edition         string
	MaterialTypeID  *uuid.UUID
	ProductIDs      []ProductID
	Locations       []Location
	Cost            Cost
}

// TotalQuantity returns the expected quantity summed over all locations
func (l *LineItem) TotalQuantity() int {
	total := 0
	for _, loc := range l.Locations {
		total += loc.Quantity
	}
	return total
}

// QuantityByLocation groups the line's allocations by location id and sums
// their expected quantities. A holding must be unique per (instance, location),
// so every returned key maps to exactly one holding.
func (l *LineItem) QuantityByLocation() map[uuid.UUID]int {
	grouped := make(map[uuid.UUID]int, len(l.Locations))
	for _, loc := range l.Locations {
		grouped[loc.LocationID] += loc.Quantity
	}
	return grouped
}

// EstimatedAmount returns list price multiplied by the total expected quantity
func (l *LineItem) EstimatedAmount() decimal.Decimal {
	return l.Cost.ListPrice.Mul(decimal.NewFromInt(int64(l.TotalQuantity())))
}

// Order is an acquisition purchase order aggregate
type Order struct {
	ID             uuid.UUID
	Number         string
	WorkflowStatus WorkflowStatus
	DateOrdered    *time.Time
	Lines          []LineItem
}

// Summary reduces the composite order to the flat document persisted in storage.
// Lines are persisted separately; only their ids travel with the summary.
func (o *Order) Summary() OrderSummary {
	summary := OrderSummary{
		ID:             o.ID,
		Number:         o.Number,
		WorkflowStatus: o.WorkflowStatus,
		DateOrdered:    o.DateOrdered,
		TotalEstimated: decimal.Zero,
	}
	for i := range o.Lines {
		summary.LineIDs = append(summary.LineIDs, o.Lines[i].ID)
		summary.TotalEstimated = summary.TotalEstimated.Add(o.Lines[i].EstimatedAmount())
	}
	return summary
}

// PromotePendingLines moves every Pending line to AwaitingReceipt. Called
// locally during activation, after inventory materialization succeeded.
func (o *Order) PromotePendingLines() {
	for i := range o.Lines {
		if o.Lines[i].ReceiptStatus == ReceiptPending {
			o.Lines[i].ReceiptStatus = ReceiptAwaiting
		}
	}
}

// OrderSummary is the storage representation of an order without composite lines
type OrderSummary struct {
	ID             uuid.UUID
	Number         string
	WorkflowStatus WorkflowStatus
	DateOrdered    *time.Time
	LineIDs        []uuid.UUID
	TotalEstimated decimal.Decimal
}

// Piece is the unit of receiving tracked against an order line
type Piece struct {
	ID              uuid.UUID
	LineID          uuid.UUID
	ItemID          *uuid.UUID
	ReceivingStatus ReceivingStatus
	ReceivedDate    *time.Time
	Caption         string
	Comment         string
	LocationID      *uuid.UUID
}

// ReceivedItem is a receiving event for one piece. It is input only and is
// never persisted directly; its overrides are folded into the piece.
type ReceivedItem struct {
	PieceID    uuid.UUID
	ItemStatus string
	Caption    string
	Comment    string
	LocationID *uuid.UUID
}

package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/libsys/acquisitions/internal/domain/orders"
)

// Wire documents for the storage API. Field names follow the remote schema.

type orderDoc struct {
	ID             string           `json:"id"`
	PoNumber       string           `json:"poNumber"`
	WorkflowStatus string           `json:"workflowStatus"`
	DateOrdered    *time.Time       `json:"dateOrdered,omitempty"`
	PoLineIDs      []string         `json:"poLineIds,omitempty"`
	TotalEstimated *decimal.Decimal `json:"totalEstimated,omitempty"`
}

type productIDDoc struct {
	ProductIDType string `json:"productIdType"`
	ProductID     string `json:"productId"`
}

type locationDoc struct {
	LocationID string `json:"locationId"`
	Quantity   int    `json:"quantity"`
}

type costDoc struct {
	ListPrice decimal.Decimal `json:"listPrice"`
	Currency  string          `json:"currency,omitempty"`
}

type lineDoc struct {
	ID              string         `json:"id,omitempty"`
	PurchaseOrderID string         `json:"purchaseOrderId"`
	PoLineNumber    string         `json:"poLineNumber"`
	ReceiptStatus   string         `json:"receiptStatus,omitempty"`
	InstanceID      string         `json:"instanceId,omitempty"`
	Source          string         `json:"source,omitempty"`
	Title           string         `json:"title,omitempty"`
	Publisher       string         `json:"publisher,omitempty"`
	PublicationDate string         `json:"publicationDate,omitempty"`
	Edition         string         `json:"edition,omitempty"`
	MaterialTypeID  string         `json:"materialTypeId,omitempty"`
	ProductIDs      []productIDDoc `json:"productIds,omitempty"`
	Locations       []locationDoc  `json:"locations,omitempty"`
	Cost            *costDoc       `json:"cost,omitempty"`
}

type pieceDoc struct {
	ID              string     `json:"id"`
	PoLineID        string     `json:"poLineId"`
	ItemID          string     `json:"itemId,omitempty"`
	ReceivingStatus string     `json:"receivingStatus"`
	ReceivedDate    *time.Time `json:"receivedDate,omitempty"`
	Caption         string     `json:"caption,omitempty"`
	Comment         string     `json:"comment,omitempty"`
	LocationID      string     `json:"locationId,omitempty"`
}

func (d orderDoc) toDomain() (*orders.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid order id %q: %w", d.ID, err)
	}
	return &orders.Order{
		ID:             id,
		Number:         d.PoNumber,
		WorkflowStatus: orders.WorkflowStatus(d.WorkflowStatus),
		DateOrdered:    d.DateOrdered,
	}, nil
}

func summaryToDoc(summary orders.OrderSummary) orderDoc {
	doc := orderDoc{
		ID:             summary.ID.String(),
		PoNumber:       summary.Number,
		WorkflowStatus: summary.WorkflowStatus.String(),
		DateOrdered:    summary.DateOrdered,
		TotalEstimated: &summary.TotalEstimated,
	}
	for _, lineID := range summary.LineIDs {
		doc.PoLineIDs = append(doc.PoLineIDs, lineID.String())
	}
	return doc
}

func (d lineDoc) toDomain() (orders.LineItem, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return orders.LineItem{}, fmt.Errorf("storage: invalid line id %q: %w", d.ID, err)
	}
	orderID, err := uuid.Parse(d.PurchaseOrderID)
	if err != nil {
		return orders.LineItem{}, fmt.Errorf("storage: invalid purchase order id %q: %w", d.PurchaseOrderID, err)
	}

	line := orders.LineItem{
		ID:              id,
		OrderID:         orderID,
		Number:          d.PoLineNumber,
		ReceiptStatus:   orders.ReceiptStatus(d.ReceiptStatus),
		Source:          d.Source,
		Title:           d.Title,
		Publisher:       d.Publisher,
		PublicationDate: d.PublicationDate,
		Edition:         d.Edition,
	}
	if d.InstanceID != "" {
		instanceID, err := uuid.Parse(d.InstanceID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("storage: invalid instance id %q: %w", d.InstanceID, err)
		}
		line.InstanceID = &instanceID
	}
	if d.MaterialTypeID != "" {
		materialTypeID, err := uuid.Parse(d.MaterialTypeID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("storage: invalid material type id %q: %w", d.MaterialTypeID, err)
		}
		line.MaterialTypeID = &materialTypeID
	}
	for _, p := range d.ProductIDs {
		line.ProductIDs = append(line.ProductIDs, orders.ProductID{
			Type:  p.ProductIDType,
			Value: p.ProductID,
		})
	}
	for _, l := range d.Locations {
		locationID, err := uuid.Parse(l.LocationID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("storage: invalid location id %q: %w", l.LocationID, err)
		}
		line.Locations = append(line.Locations, orders.Location{
			LocationID: locationID,
			Quantity:   l.Quantity,
		})
	}
	if d.Cost != nil {
		line.Cost = orders.Cost{
			ListPrice: d.Cost.ListPrice,
			Currency:  d.Cost.Currency,
		}
	}
	return line, nil
}

func lineToDoc(line orders.LineItem) lineDoc {
	doc := lineDoc{
		PurchaseOrderID: line.OrderID.String(),
		PoLineNumber:    line.Number,
		ReceiptStatus:   string(line.ReceiptStatus),
		Source:          line.Source,
		Title:           line.Title,
		Publisher:       line.Publisher,
		PublicationDate: line.PublicationDate,
		Edition:         line.Edition,
	}
	if line.ID != uuid.Nil {
		doc.ID = line.ID.String()
	}
	if line.InstanceID != nil {
		doc.InstanceID = line.InstanceID.String()
	}
	if line.MaterialTypeID != nil {
		doc.MaterialTypeID = line.MaterialTypeID.String()
	}
	for _, p := range line.ProductIDs {
		doc.ProductIDs = append(doc.ProductIDs, productIDDoc{
			ProductIDType: p.Type,
			ProductID:     p.Value,
		})
	}
	for _, l := range line.Locations {
		doc.Locations = append(doc.Locations, locationDoc{
			LocationID: l.LocationID.String(),
			Quantity:   l.Quantity,
		})
	}
	if !line.Cost.ListPrice.IsZero() || line.Cost.Currency != "" {
		doc.Cost = &costDoc{
			ListPrice: line.Cost.ListPrice,
			Currency:  line.Cost.Currency,
		}
	}
	return doc
}

func (d pieceDoc) toDomain() (orders.Piece, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return orders.Piece{}, fmt.Errorf("storage: invalid piece id %q: %w", d.ID, err)
	}
	lineID, err := uuid.Parse(d.PoLineID)
	if err != nil {
		return orders.Piece{}, fmt.Errorf("storage: invalid piece line id %q: %w", d.PoLineID, err)
	}

	piece := orders.Piece{
		ID:              id,
		LineID:          lineID,
		ReceivingStatus: orders.ReceivingStatus(d.ReceivingStatus),
		ReceivedDate:    d.ReceivedDate,
		Caption:         d.Caption,
		Comment:         d.Comment,
	}
	if d.ItemID != "" {
		itemID, err := uuid.Parse(d.ItemID)
		if err != nil {
			return orders.Piece{}, fmt.Errorf("storage: invalid piece item id %q: %w", d.ItemID, err)
		}
		piece.ItemID = &itemID
	}
	if d.LocationID != "" {
		locationID, err := uuid.Parse(d.LocationID)
		if err != nil {
			return orders.Piece{}, fmt.Errorf("storage: invalid piece location id %q: %w", d.LocationID, err)
		}
		piece.LocationID = &locationID
	}
	return piece, nil
}

func pieceToDoc(piece orders.Piece) pieceDoc {
	doc := pieceDoc{
		ID:              piece.ID.String(),
		PoLineID:        piece.LineID.String(),
		ReceivingStatus: string(piece.ReceivingStatus),
		ReceivedDate:    piece.ReceivedDate,
		Caption:         piece.Caption,
		Comment:         piece.Comment,
	}
	if piece.ItemID != nil {
		doc.ItemID = piece.ItemID.String()
	}
	if piece.LocationID != nil {
		doc.LocationID = piece.LocationID.String()
	}
	return doc
}

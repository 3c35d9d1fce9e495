package dto

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/libsys/acquisitions/internal/domain/orders"
)

// OrderUpdateRequest is the composite purchase order submitted on update.
// Field names follow the acquisitions wire schema.
type OrderUpdateRequest struct {
	ID             string        `json:"id" binding:"omitempty,uuid"`
	PoNumber       string        `json:"poNumber" binding:"required,ordernumber"`
	WorkflowStatus string        `json:"workflowStatus" binding:"required,oneof=DRAFT ACTIVE CLOSED"`
	PoLines        []LineRequest `json:"poLines" binding:"omitempty,dive"`
}

// LineRequest is one composite order line
type LineRequest struct {
	ID              string             `json:"id" binding:"omitempty,uuid"`
	PoLineNumber    string             `json:"poLineNumber"`
	ReceiptStatus   string             `json:"receiptStatus" binding:"omitempty,oneof=PENDING AWAITING_RECEIPT PARTIALLY_RECEIVED FULLY_RECEIVED"`
	InstanceID      string             `json:"instanceId" binding:"omitempty,uuid"`
	Source          string             `json:"source"`
	Title           string             `json:"title" binding:"required"`
	Publisher       string             `json:"publisher"`
	PublicationDate string             `json:"publicationDate"`
	Edition         string             `json:"edition"`
	MaterialTypeID  string             `json:"materialTypeId" binding:"omitempty,uuid"`
	ProductIDs      []ProductIDRequest `json:"productIds" binding:"omitempty,dive"`
	Locations       []LocationRequest  `json:"locations" binding:"omitempty,dive"`
	Cost            *CostRequest       `json:"cost"`
}

// ProductIDRequest is one typed bibliographic identifier
type ProductIDRequest struct {
	ProductIDType string `json:"productIdType" binding:"required"`
	ProductID     string `json:"productId" binding:"required"`
}

// LocationRequest allocates an expected quantity to a location
type LocationRequest struct {
	LocationID string `json:"locationId" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"min=0"`
}

// CostRequest carries the per-unit list price
type CostRequest struct {
	ListPrice decimal.Decimal `json:"listPrice"`
	Currency  string          `json:"currency" binding:"omitempty,len=3"`
}

// ToDomain converts the request to the domain order aggregate
func (r *OrderUpdateRequest) ToDomain() (*orders.Order, error) {
	order := &orders.Order{
		Number:         r.PoNumber,
		WorkflowStatus: orders.WorkflowStatus(r.WorkflowStatus),
	}
	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q: %w", r.ID, err)
		}
		order.ID = id
	}
	for i := range r.PoLines {
		line, err := r.PoLines[i].toDomain()
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	return order, nil
}

func (r *LineRequest) toDomain() (orders.LineItem, error) {
	line := orders.LineItem{
		Number:          r.PoLineNumber,
		ReceiptStatus:   orders.ReceiptStatus(r.ReceiptStatus),
		Source:          r.Source,
		Title:           r.Title,
		Publisher:       r.Publisher,
		PublicationDate: r.PublicationDate,
		Edition:         r.Edition,
	}
	if r.ReceiptStatus == "" {
		line.ReceiptStatus = orders.ReceiptPending
	}
	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("invalid line id %q: %w", r.ID, err)
		}
		line.ID = id
	}
	if r.InstanceID != "" {
		instanceID, err := uuid.Parse(r.InstanceID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("invalid instance id %q: %w", r.InstanceID, err)
		}
		line.InstanceID = &instanceID
	}
	if r.MaterialTypeID != "" {
		materialTypeID, err := uuid.Parse(r.MaterialTypeID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("invalid material type id %q: %w", r.MaterialTypeID, err)
		}
		line.MaterialTypeID = &materialTypeID
	}
	for _, p := range r.ProductIDs {
		line.ProductIDs = append(line.ProductIDs, orders.ProductID{
			Type:  p.ProductIDType,
			Value: p.ProductID,
		})
	}
	for _, l := range r.Locations {
		locationID, err := uuid.Parse(l.LocationID)
		if err != nil {
			return orders.LineItem{}, fmt.Errorf("invalid location id %q: %w", l.LocationID, err)
		}
		line.Locations = append(line.Locations, orders.Location{
			LocationID: locationID,
			Quantity:   l.Quantity,
		})
	}
	if r.Cost != nil {
		line.Cost = orders.Cost{
			ListPrice: r.Cost.ListPrice,
			Currency:  r.Cost.Currency,
		}
	}
	return line, nil
}

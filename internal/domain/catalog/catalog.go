package catalog

import "github.com/google/uuid"

// ReferenceKind identifies a class of inventory reference records
type ReferenceKind string

const (
	RefIdentifierType ReferenceKind = "identifier-types"
	RefInstanceType   ReferenceKind = "instance-types"
	RefInstanceStatus ReferenceKind = "instance-statuses"
	RefLoanType       ReferenceKind = "loan-types"
)

// ItemStatusOnOrder is the item status set on newly materialized items and
// checked during receiving to detect an undo-of-receipt.
const ItemStatusOnOrder = "On order"

// Identifier is a typed bibliographic identifier on an instance
type Identifier struct {
	TypeID uuid.UUID `json:"identifierTypeId"`
	Value  string    `json:"value"`
}

// Publication describes one publication entry of an instance
type Publication struct {
	Publisher         string `json:"publisher,omitempty"`
	DateOfPublication string `json:"dateOfPublication,omitempty"`
}

// InstancePayload is the minimal instance document submitted on creation.
// Source is mandatory by the inventory schema.
type InstancePayload struct {
	Source         string        `json:"source"`
	Title          string        `json:"title,omitempty"`
	Editions       []string      `json:"editions,omitempty"`
	StatusID       uuid.UUID     `json:"statusId"`
	InstanceTypeID uuid.UUID     `json:"instanceTypeId"`
	Publication    []Publication `json:"publication,omitempty"`
	Identifiers    []Identifier  `json:"identifiers,omitempty"`
}

// Instance is a bibliographic work known to the inventory
type Instance struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
}

// Holding ties an instance to a permanent location; at most one exists
// per (instance, location) pair
type Holding struct {
	ID         uuid.UUID `json:"id"`
	InstanceID uuid.UUID `json:"instanceId"`
	LocationID uuid.UUID `json:"permanentLocationId"`
}

// Item is one physical or loanable copy under a holding
type Item struct {
	ID        uuid.UUID `json:"id"`
	HoldingID uuid.UUID `json:"holdingsRecordId"`
	Status    string    `json:"status,omitempty"`
}

// ItemPayload is the minimal item document submitted on creation
type ItemPayload struct {
	HoldingID      uuid.UUID
	MaterialTypeID uuid.UUID
	LoanTypeID     uuid.UUID
	LineID         uuid.UUID
	Status         string
}

// ItemUpdate carries receiving details applied to an existing item
type ItemUpdate struct {
	Status     string
	Caption    string
	Comment    string
	LocationID *uuid.UUID
}

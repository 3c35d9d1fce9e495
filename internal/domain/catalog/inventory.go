package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Inventory is the remote inventory collaborator. Lookups never mutate; the
// create operations return the id of the new record, extracted from the
// response body or its Location header by the adapter.
type Inventory interface {
	// LookupIdentifierTypes resolves identifier scheme names to ids in one
	// round trip. The returned map holds one entry per scheme the inventory
	// knows; callers detect unknown schemes by comparing counts.
	LookupIdentifierTypes(ctx context.Context, names []string) (map[string]uuid.UUID, error)

	// LookupInstances searches instances matching any of the given typed
	// identifiers (combined with OR).
	LookupInstances(ctx context.Context, identifiers []Identifier) ([]Instance, error)
	CreateInstance(ctx context.Context, payload InstancePayload) (uuid.UUID, error)

	LookupHolding(ctx context.Context, instanceID, locationID uuid.UUID) (*Holding, error)
	CreateHolding(ctx context.Context, instanceID, locationID uuid.UUID) (uuid.UUID, error)

	LookupItems(ctx context.Context, lineID, holdingID uuid.UUID, limit int) ([]Item, error)
	CreateItem(ctx context.Context, payload ItemPayload) (uuid.UUID, error)

	// LookupReference resolves a reference record (instance type, instance
	// status, loan type) by its code or name, depending on the kind.
	LookupReference(ctx context.Context, kind ReferenceKind, code string) (uuid.UUID, error)

	// UpdateItem applies receiving details to a catalog item and returns the
	// item's resulting status.
	UpdateItem(ctx context.Context, itemID uuid.UUID, update ItemUpdate) (string, error)
}

package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libsys/acquisitions/internal/domain/catalog"
	"github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
	"github.com/libsys/acquisitions/internal/infrastructure/cache"
	"github.com/libsys/acquisitions/internal/infrastructure/telemetry"
)

// Default reference record codes used when creating catalog records
const (
	defaultInstanceTypeCode = "zzz"
	defaultStatusCode       = "temp"
	defaultLoanTypeName     = "Can circulate"
)

// Materializer resolves or creates the catalog records backing an order
// line: the instance, one holding per location, and one item per expected
// physical copy. Every lookup-or-create is idempotent, so re-materializing
// an unchanged line produces no duplicates.
type Materializer struct {
	inventory catalog.Inventory
	refs      cache.ReferenceCache
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewMaterializer creates a new Materializer
func NewMaterializer(inventory catalog.Inventory, refs cache.ReferenceCache, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		inventory: inventory,
		refs:      refs,
		logger:    logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (m *Materializer) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	m.metrics = bm
}

// Materialize attaches a catalog instance to the line and ensures the
// holdings and items its location allocations call for. It returns the ids
// of every item now backing the line, found or created.
func (m *Materializer) Materialize(ctx context.Context, line *orders.LineItem) ([]uuid.UUID, error) {
	identifierTypes, err := m.identifierTypes(ctx, line)
	if err != nil {
		return nil, err
	}

	instanceID, err := m.resolveInstance(ctx, line, identifierTypes)
	if err != nil {
		return nil, err
	}
	line.InstanceID = &instanceID

	return m.materializeItems(ctx, line)
}

// identifierTypes resolves the line's identifier scheme names to ids in one
// lookup. A count mismatch means the line declares a scheme the inventory
// does not know.
func (m *Materializer) identifierTypes(ctx context.Context, line *orders.LineItem) (map[string]uuid.UUID, error) {
	if len(line.ProductIDs) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(line.ProductIDs))
	seen := make(map[string]bool, len(line.ProductIDs))
	for _, productID := range line.ProductIDs {
		if !seen[productID.Type] {
			seen[productID.Type] = true
			names = append(names, productID.Type)
		}
	}

	types, err := m.inventory.LookupIdentifierTypes(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(types) != len(names) {
		return nil, fmt.Errorf("%w: invalid identifier type(s) specified for line %s", shared.ErrValidation, line.ID)
	}
	return types, nil
}

// resolveInstance returns the id of the instance backing the line, looking
// it up by the line's typed identifiers and creating it when absent. A line
// that already carries an instance reference keeps it.
func (m *Materializer) resolveInstance(ctx context.Context, line *orders.LineItem, identifierTypes map[string]uuid.UUID) (uuid.UUID, error) {
	if line.InstanceID != nil {
		return *line.InstanceID, nil
	}

	identifiers := make([]catalog.Identifier, 0, len(line.ProductIDs))
	for _, productID := range line.ProductIDs {
		identifiers = append(identifiers, catalog.Identifier{
			TypeID: identifierTypes[productID.Type],
			Value:  productID.Value,
		})
	}

	// A line without identifiers goes straight to creation
	if len(identifiers) > 0 {
		instances, err := m.inventory.LookupInstances(ctx, identifiers)
		if err != nil {
			return uuid.Nil, err
		}
		if len(instances) > 0 {
			return instances[0].ID, nil
		}
	}

	return m.createInstance(ctx, line, identifiers)
}

// createInstance builds and submits a new instance document. The default
// instance type and status are resolved concurrently.
func (m *Materializer) createInstance(ctx context.Context, line *orders.LineItem, identifiers []catalog.Identifier) (uuid.UUID, error) {
	var instanceTypeID, statusID uuid.UUID

	var g errgroup.Group
	g.Go(func() error {
		id, err := m.resolveReference(ctx, catalog.RefInstanceType, defaultInstanceTypeCode)
		instanceTypeID = id
		return err
	})
	g.Go(func() error {
		id, err := m.resolveReference(ctx, catalog.RefInstanceStatus, defaultStatusCode)
		statusID = id
		return err
	})
	if err := g.Wait(); err != nil {
		return uuid.Nil, err
	}

	payload := catalog.InstancePayload{
		Source:         line.Source,
		Title:          line.Title,
		StatusID:       statusID,
		InstanceTypeID: instanceTypeID,
		Identifiers:    identifiers,
	}
	if line.Edition != "" {
		payload.Editions = []string{line.Edition}
	}
	if line.Publisher != "" || line.PublicationDate != "" {
		payload.Publication = []catalog.Publication{{
			Publisher:         line.Publisher,
			DateOfPublication: line.PublicationDate,
		}}
	}

	instanceID, err := m.inventory.CreateInstance(ctx, payload)
	if err != nil {
		return uuid.Nil, err
	}
	m.logger.Debug("instance created",
		zap.String("line_id", line.ID.String()),
		zap.String("instance_id", instanceID.String()),
	)
	return instanceID, nil
}

// materializeItems ensures holdings and items for every location allocation
// with a positive expected quantity. Locations run concurrently; the line
// fails if any location group ends up with no usable items.
func (m *Materializer) materializeItems(ctx context.Context, line *orders.LineItem) ([]uuid.UUID, error) {
	grouped := line.QuantityByLocation()

	locationIDs := make([]uuid.UUID, 0, len(grouped))
	for locationID, quantity := range grouped {
		// Nothing is created for zero-quantity groups, e.g. an electronic
		// resource with no physical copies expected
		if quantity > 0 {
			locationIDs = append(locationIDs, locationID)
		}
	}

	// The default loan type is resolved at most once per call
	loanType := sync.OnceValues(func() (uuid.UUID, error) {
		return m.resolveReference(ctx, catalog.RefLoanType, defaultLoanTypeName)
	})

	results := make([][]uuid.UUID, len(locationIDs))
	var g errgroup.Group
	for i, locationID := range locationIDs {
		g.Go(func() error {
			ids, err := m.itemsForLocation(ctx, line, locationID, grouped[locationID], loanType)
			if err != nil {
				return err
			}
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []uuid.UUID
	for _, ids := range results {
		all = append(all, ids...)
	}
	return all, nil
}

// itemsForLocation gets or creates the holding for one location and tops the
// item count up to the expected quantity
func (m *Materializer) itemsForLocation(ctx context.Context, line *orders.LineItem, locationID uuid.UUID, expected int, loanType func() (uuid.UUID, error)) ([]uuid.UUID, error) {
	holdingID, err := m.getOrCreateHolding(ctx, *line.InstanceID, locationID)
	if err != nil {
		return nil, err
	}

	existing, err := m.inventory.LookupItems(ctx, line.ID, holdingID, expected)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, expected)
	for _, item := range existing {
		ids = append(ids, item.ID)
	}
	m.logger.Debug("existing items found",
		zap.String("line_id", line.ID.String()),
		zap.Int("found", len(ids)),
		zap.Int("expected", expected),
	)

	created, err := m.createMissingItems(ctx, line, holdingID, expected-len(ids), loanType)
	if err != nil {
		return nil, err
	}
	ids = append(ids, created...)

	// Nothing usable was produced for this location; the whole line fails
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no items materialized for line %s at location %s", shared.ErrInventory, line.ID, locationID)
	}
	return ids, nil
}

// getOrCreateHolding looks up the holding for (instance, location) and
// creates it when absent
func (m *Materializer) getOrCreateHolding(ctx context.Context, instanceID, locationID uuid.UUID) (uuid.UUID, error) {
	holding, err := m.inventory.LookupHolding(ctx, instanceID, locationID)
	if err != nil {
		return uuid.Nil, err
	}
	if holding != nil {
		return holding.ID, nil
	}
	return m.inventory.CreateHolding(ctx, instanceID, locationID)
}

// createMissingItems creates the shortfall of items concurrently. A single
// creation failure yields no id for that slot instead of failing the group.
func (m *Materializer) createMissingItems(ctx context.Context, line *orders.LineItem, holdingID uuid.UUID, shortfall int, loanType func() (uuid.UUID, error)) ([]uuid.UUID, error) {
	if shortfall <= 0 {
		return nil, nil
	}

	// The schema is expected to enforce this; re-checked defensively
	if line.MaterialTypeID == nil {
		return nil, fmt.Errorf("%w: material type is required but not set on line %s", shared.ErrValidation, line.ID)
	}
	loanTypeID, err := loanType()
	if err != nil {
		return nil, err
	}

	payload := catalog.ItemPayload{
		HoldingID:      holdingID,
		MaterialTypeID: *line.MaterialTypeID,
		LoanTypeID:     loanTypeID,
		LineID:         line.ID,
		Status:         catalog.ItemStatusOnOrder,
	}
	m.logger.Debug("creating items",
		zap.String("line_id", line.ID.String()),
		zap.Int("count", shortfall),
	)

	slots := make([]uuid.UUID, shortfall)
	var g errgroup.Group
	for i := 0; i < shortfall; i++ {
		g.Go(func() error {
			id, err := m.inventory.CreateItem(ctx, payload)
			if err != nil {
				m.logger.Warn("item creation failed",
					zap.String("line_id", line.ID.String()),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = id
			return nil
		})
	}
	_ = g.Wait()

	created := make([]uuid.UUID, 0, shortfall)
	for _, id := range slots {
		if id != uuid.Nil {
			created = append(created, id)
		}
	}
	m.metrics.RecordItemsCreated(ctx, len(created))
	return created, nil
}

// resolveReference resolves a reference record id through the cache
func (m *Materializer) resolveReference(ctx context.Context, kind catalog.ReferenceKind, code string) (uuid.UUID, error) {
	if m.refs != nil {
		if id, ok := m.refs.Get(ctx, kind, code); ok {
			return id, nil
		}
	}
	id, err := m.inventory.LookupReference(ctx, kind, code)
	if err != nil {
		return uuid.Nil, err
	}
	if m.refs != nil {
		m.refs.Set(ctx, kind, code, id)
	}
	return id, nil
}

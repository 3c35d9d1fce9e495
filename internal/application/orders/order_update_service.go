package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
	"github.com/libsys/acquisitions/internal/infrastructure/telemetry"
)

// LineMaterializer materializes catalog records for one order line and
// attaches the resolved instance reference to it
type LineMaterializer interface {
	Materialize(ctx context.Context, line *orders.LineItem) ([]uuid.UUID, error)
}

// OrderUpdateService drives the end-to-end update of a composite order:
// line reconciliation, the draft-to-active transition, and inventory
// materialization on activation. It is best-effort orchestration across
// remote collaborators; there is no cross-service rollback, only explicit
// partial-failure reporting.
type OrderUpdateService struct {
	storage      orders.Storage
	materializer LineMaterializer
	metrics      *telemetry.BusinessMetrics
	logger       *zap.Logger
}

// NewOrderUpdateService creates a new OrderUpdateService
func NewOrderUpdateService(storage orders.Storage, materializer LineMaterializer, logger *zap.Logger) *OrderUpdateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderUpdateService{
		storage:      storage,
		materializer: materializer,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderUpdateService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// UpdateOrder applies the desired composite order on top of the stored one.
// On success there is no payload. On failure the returned error is a
// shared.ErrorList combining the terminal cause with any per-line
// processing errors accumulated along the way.
func (s *OrderUpdateService) UpdateOrder(ctx context.Context, orderID uuid.UUID, desired *orders.Order) error {
	desired.ID = orderID
	// Submitted lines carry no owning-order reference on the wire
	for i := range desired.Lines {
		desired.Lines[i].OrderID = orderID
	}

	var processing []error
	if err := s.updateOrder(ctx, desired, &processing); err != nil {
		return shared.NewErrorList(processing, err)
	}
	return nil
}

func (s *OrderUpdateService) updateOrder(ctx context.Context, desired *orders.Order, processing *[]error) error {
	stored, err := s.storage.GetOrder(ctx, desired.ID)
	if err != nil {
		return err
	}

	// Number uniqueness is verified before any line mutation is dispatched
	numberChanged := !strings.EqualFold(stored.Number, desired.Number)
	if numberChanged {
		unique, err := s.storage.IsNumberUnique(ctx, desired.Number)
		if err != nil {
			return err
		}
		if !unique {
			return fmt.Errorf("%w: order number %q is already in use", shared.ErrValidation, desired.Number)
		}
	}

	if len(desired.Lines) > 0 || numberChanged {
		plan, err := s.reconcileLines(ctx, desired)
		if err != nil {
			return err
		}
		if err := s.applyLinePlan(ctx, plan, processing); err != nil {
			return err
		}
		// Carry renumbered lines and freshly assigned ids forward
		if len(desired.Lines) > 0 {
			desired.Lines = append(plan.ToUpdate, plan.ToCreate...)
		}
	}

	if stored.WorkflowStatus == orders.WorkflowDraft && desired.WorkflowStatus == orders.WorkflowActive {
		return s.activate(ctx, desired, processing)
	}
	return s.storage.UpdateOrderSummary(ctx, desired.Summary())
}

// activate handles the draft-to-active transition: inventory
// materialization per line, summary persistence, local receipt-status
// promotion, and a second line pass to persist attached instance ids.
func (s *OrderUpdateService) activate(ctx context.Context, desired *orders.Order, processing *[]error) error {
	now := time.Now()
	desired.DateOrdered = &now

	if len(desired.Lines) == 0 {
		lines, err := s.storage.GetLines(ctx, desired.ID)
		if err != nil {
			return err
		}
		desired.Lines = lines
	}

	branchErrs := make([]error, len(desired.Lines))
	var g errgroup.Group
	for i := range desired.Lines {
		line := &desired.Lines[i]
		g.Go(s.branch(branchErrs, i, func() error {
			itemIDs, err := s.materializer.Materialize(ctx, line)
			if err != nil {
				return fmt.Errorf("line %s: %w", line.ID, err)
			}
			s.logger.Debug("line materialized",
				zap.String("line_id", line.ID.String()),
				zap.Int("items", len(itemIDs)),
			)
			return nil
		}))
	}
	if first := g.Wait(); first != nil {
		for _, err := range branchErrs {
			if err != nil && err != first {
				*processing = append(*processing, err)
			}
		}
		return first
	}

	if err := s.storage.UpdateOrderSummary(ctx, desired.Summary()); err != nil {
		return err
	}

	desired.PromotePendingLines()

	// Materialization attached instance ids, so the lines go through the
	// same create/update/delete reconciliation once more
	plan, err := s.reconcileLines(ctx, desired)
	if err != nil {
		return err
	}
	if err := s.applyLinePlan(ctx, plan, processing); err != nil {
		return err
	}

	s.metrics.RecordActivation(ctx, len(desired.Lines))
	s.logger.Info("order activated",
		zap.String("order_id", desired.ID.String()),
		zap.String("po_number", desired.Number),
		zap.Int("lines", len(desired.Lines)),
	)
	return nil
}

func (s *OrderUpdateService) reconcileLines(ctx context.Context, desired *orders.Order) (orders.LinePlan, error) {
	storedLines, err := s.storage.GetLines(ctx, desired.ID)
	if err != nil {
		return orders.LinePlan{}, err
	}

	plan := orders.ReconcileLines(desired.Lines, storedLines, desired.Number)
	for _, lineID := range plan.Unparsed {
		s.logger.Warn("line has invalid or missing number, keeping it unchanged",
			zap.String("line_id", lineID.String()),
		)
	}
	return plan, nil
}

// applyLinePlan dispatches the plan's create/update/delete operations
// concurrently and joins. The first failure fails the join; sibling
// operations still run to completion and their individual errors are
// appended to processing. Created lines get their storage-assigned ids
// written back in place.
func (s *OrderUpdateService) applyLinePlan(ctx context.Context, plan orders.LinePlan, processing *[]error) error {
	branchErrs := make([]error, len(plan.ToCreate)+len(plan.ToUpdate)+len(plan.ToDelete))
	slot := 0

	var g errgroup.Group
	for i := range plan.ToCreate {
		line := &plan.ToCreate[i]
		g.Go(s.branch(branchErrs, slot, func() error {
			id, err := s.storage.CreateLine(ctx, *line)
			if err != nil {
				return fmt.Errorf("create line %q: %w", line.Number, err)
			}
			line.ID = id
			return nil
		}))
		slot++
	}
	for i := range plan.ToUpdate {
		line := plan.ToUpdate[i]
		g.Go(s.branch(branchErrs, slot, func() error {
			if err := s.storage.UpdateLine(ctx, line); err != nil {
				return fmt.Errorf("update line %s: %w", line.ID, err)
			}
			return nil
		}))
		slot++
	}
	for i := range plan.ToDelete {
		line := plan.ToDelete[i]
		g.Go(s.branch(branchErrs, slot, func() error {
			if err := s.storage.DeleteLine(ctx, line.ID); err != nil {
				return fmt.Errorf("delete line %s: %w", line.ID, err)
			}
			return nil
		}))
		slot++
	}

	first := g.Wait()
	for _, err := range branchErrs {
		if err != nil && err != first {
			*processing = append(*processing, err)
		}
	}
	return first
}

// branch wraps a line operation so its error lands in a disjoint slot of
// errs in addition to failing the join
func (s *OrderUpdateService) branch(errs []error, slot int, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			errs[slot] = err
			return err
		}
		return nil
	}
}

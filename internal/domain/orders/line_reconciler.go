package orders

import (
	"strconv"

	"github.com/google/uuid"
)

// LinePlan is the outcome of diffing incoming lines against stored lines.
// The three sets are disjoint and ready for concurrent dispatch.
type LinePlan struct {
	ToCreate []LineItem
	ToUpdate []LineItem
	ToDelete []LineItem

	// Unparsed lists stored lines whose numbers did not match the expected
	// pattern. Their numbers are passed through unchanged; the condition is
	// reported as a warning, never as a failure.
	Unparsed []uuid.UUID
}

// ReconcileLines performs a three-way diff of incoming lines against stored
// lines, keyed by line id, and renumbers retained lines onto orderNumber.
//
// With no incoming lines the plan degrades to a renumber-only update of every
// stored line, used when only the order number changed.
//
// Numbering rules:
//   - a retained line reuses the sequence suffix of its stored number
//   - a single new line takes the bare order number
//   - multiple new lines in one batch get positional suffixes -1..-n in
//     request order, so repeated submissions number them deterministically
func ReconcileLines(incoming, stored []LineItem, orderNumber string) LinePlan {
	var plan LinePlan

	storedByID := make(map[uuid.UUID]LineItem, len(stored))
	for _, line := range stored {
		storedByID[line.ID] = line
	}

	if len(incoming) == 0 {
		for _, line := range stored {
			renumbered, ok := RebaseLineNumber(line.Number, orderNumber)
			if !ok {
				plan.Unparsed = append(plan.Unparsed, line.ID)
			}
			line.Number = renumbered
			plan.ToUpdate = append(plan.ToUpdate, line)
		}
		return plan
	}

	var created []LineItem
	for _, line := range incoming {
		storedLine, exists := storedByID[line.ID]
		if !exists {
			created = append(created, line)
			continue
		}
		delete(storedByID, line.ID)

		renumbered, ok := RebaseLineNumber(storedLine.Number, orderNumber)
		if !ok {
			plan.Unparsed = append(plan.Unparsed, line.ID)
		}
		line.Number = renumbered
		plan.ToUpdate = append(plan.ToUpdate, line)
	}

	for i, line := range created {
		if len(created) == 1 {
			line.Number = orderNumber
		} else {
			line.Number = orderNumber + "-" + strconv.Itoa(i+1)
		}
		plan.ToCreate = append(plan.ToCreate, line)
	}

	// Stored lines not paired with any incoming line are removed
	for _, line := range stored {
		if _, left := storedByID[line.ID]; left {
			plan.ToDelete = append(plan.ToDelete, line)
		}
	}

	return plan
}

package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItem_TotalQuantity(t *testing.T) {
	line := LineItem{
		Locations: []Location{
			{LocationID: uuid.New(), Quantity: 2},
			{LocationID: uuid.New(), Quantity: 3},
		},
	}
	assert.Equal(t, 5, line.TotalQuantity())

	assert.Equal(t, 0, (&LineItem{}).TotalQuantity())
}

func TestLineItem_QuantityByLocation_MergesDuplicates(t *testing.T) {
	locA := uuid.New()
	locB := uuid.New()
	line := LineItem{
		Locations: []Location{
			{LocationID: locA, Quantity: 2},
			{LocationID: locB, Quantity: 1},
			{LocationID: locA, Quantity: 4},
		},
	}

	grouped := line.QuantityByLocation()
	require.Len(t, grouped, 2)
	assert.Equal(t, 6, grouped[locA])
	assert.Equal(t, 1, grouped[locB])
}

func TestLineItem_EstimatedAmount(t *testing.T) {
	line := LineItem{
		Cost: Cost{ListPrice: decimal.RequireFromString("9.95"), Currency: "USD"},
		Locations: []Location{
			{LocationID: uuid.New(), Quantity: 3},
		},
	}
	assert.True(t, line.EstimatedAmount().Equal(decimal.RequireFromString("29.85")))
}

func TestOrder_Summary(t *testing.T) {
	order := Order{
		ID:             uuid.New(),
		Number:         "10000",
		WorkflowStatus: WorkflowActive,
		Lines: []LineItem{
			{
				ID:        uuid.New(),
				Cost:      Cost{ListPrice: decimal.NewFromInt(10)},
				Locations: []Location{{LocationID: uuid.New(), Quantity: 2}},
			},
			{
				ID:        uuid.New(),
				Cost:      Cost{ListPrice: decimal.NewFromInt(5)},
				Locations: []Location{{LocationID: uuid.New(), Quantity: 1}},
			},
		},
	}

	summary := order.Summary()
	assert.Equal(t, order.ID, summary.ID)
	assert.Equal(t, "10000", summary.Number)
	require.Len(t, summary.LineIDs, 2)
	assert.True(t, summary.TotalEstimated.Equal(decimal.NewFromInt(25)))
}

func TestOrder_PromotePendingLines(t *testing.T) {
	order := Order{
		Lines: []LineItem{
			{ReceiptStatus: ReceiptPending},
			{ReceiptStatus: ReceiptPartiallyReceived},
			{ReceiptStatus: ReceiptPending},
		},
	}

	order.PromotePendingLines()

	assert.Equal(t, ReceiptAwaiting, order.Lines[0].ReceiptStatus)
	assert.Equal(t, ReceiptPartiallyReceived, order.Lines[1].ReceiptStatus)
	assert.Equal(t, ReceiptAwaiting, order.Lines[2].ReceiptStatus)
}

func TestWorkflowStatus_IsValid(t *testing.T) {
	assert.True(t, WorkflowDraft.IsValid())
	assert.True(t, WorkflowActive.IsValid())
	assert.True(t, WorkflowClosed.IsValid())
	assert.False(t, WorkflowStatus("OPEN").IsValid())
}

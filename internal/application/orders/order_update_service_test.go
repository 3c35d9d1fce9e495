package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if order := args.Get(0); order != nil {
		return order.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) IsNumberUnique(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorage) UpdateOrderSummary(ctx context.Context, summary domain.OrderSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockStorage) GetLines(ctx context.Context, orderID uuid.UUID) ([]domain.LineItem, error) {
	args := m.Called(ctx, orderID)
	if lines := args.Get(0); lines != nil {
		return lines.([]domain.LineItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) CreateLine(ctx context.Context, line domain.LineItem) (uuid.UUID, error) {
	args := m.Called(ctx, line)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockStorage) UpdateLine(ctx context.Context, line domain.LineItem) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *mockStorage) DeleteLine(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStorage) GetPieces(ctx context.Context, ids []uuid.UUID) ([]domain.Piece, error) {
	args := m.Called(ctx, ids)
	if pieces := args.Get(0); pieces != nil {
		return pieces.([]domain.Piece), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) SavePieces(ctx context.Context, pieces []domain.Piece) error {
	args := m.Called(ctx, pieces)
	return args.Error(0)
}

func (m *mockStorage) GetReceivingHistory(ctx context.Context, limit, offset int, query string) (*domain.ReceivingHistory, error) {
	args := m.Called(ctx, limit, offset, query)
	if history := args.Get(0); history != nil {
		return history.(*domain.ReceivingHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMaterializer struct {
	mock.Mock
}

func (m *mockMaterializer) Materialize(ctx context.Context, line *domain.LineItem) ([]uuid.UUID, error) {
	args := m.Called(ctx, line)
	if ids := args.Get(0); ids != nil {
		return ids.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	storage.On("GetOrder", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	err := service.UpdateOrder(context.Background(), orderID, &domain.Order{Number: "10000"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	storage.AssertNotCalled(t, "UpdateOrderSummary", mock.Anything, mock.Anything)
}

func TestUpdateOrder_NumberConflictBeforeLineMutation(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowDraft}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("IsNumberUnique", mock.Anything, "20000").Return(false, nil)

	desired := &domain.Order{
		Number:         "20000",
		WorkflowStatus: domain.WorkflowDraft,
		Lines:          []domain.LineItem{{ID: uuid.New(), Title: "A Title"}},
	}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	storage.AssertNotCalled(t, "GetLines", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "UpdateLine", mock.Anything, mock.Anything)
}

func TestUpdateOrder_PlainSummaryUpdate(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowActive}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("UpdateOrderSummary", mock.Anything, mock.Anything).Return(nil)

	desired := &domain.Order{Number: "10000", WorkflowStatus: domain.WorkflowActive}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.NoError(t, err)
	storage.AssertNotCalled(t, "IsNumberUnique", mock.Anything, mock.Anything)
	materializer.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything)
}

func TestUpdateOrder_LineReconciliation(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	retained := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-1"}
	removed := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-2"}
	added := domain.LineItem{ID: uuid.New(), OrderID: orderID, Title: "Fresh"}
	newLineID := uuid.New()

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowActive}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{retained, removed}, nil)
	storage.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == retained.ID
	})).Return(nil)
	storage.On("CreateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == added.ID
	})).Return(newLineID, nil)
	storage.On("DeleteLine", mock.Anything, removed.ID).Return(nil)
	storage.On("UpdateOrderSummary", mock.Anything, mock.Anything).Return(nil)

	desired := &domain.Order{
		Number:         "10000",
		WorkflowStatus: domain.WorkflowActive,
		Lines:          []domain.LineItem{retained, added},
	}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.NoError(t, err)
	storage.AssertExpectations(t)

	// Created line carries its storage-assigned id forward
	require.Len(t, desired.Lines, 2)
	assert.Equal(t, newLineID, desired.Lines[1].ID)
}

func TestUpdateOrder_StampsOrderIDOnLines(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	// Lines arrive shaped as the wire layer produces them: no OrderID
	retained := domain.LineItem{ID: uuid.New(), Title: "Kept"}
	added := domain.LineItem{ID: uuid.New(), Title: "Fresh"}

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowActive}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{
		{ID: retained.ID, OrderID: orderID, Number: "10000-1"},
	}, nil)
	storage.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == retained.ID && l.OrderID == orderID
	})).Return(nil)
	storage.On("CreateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == added.ID && l.OrderID == orderID
	})).Return(uuid.New(), nil)
	storage.On("UpdateOrderSummary", mock.Anything, mock.Anything).Return(nil)

	desired := &domain.Order{
		Number:         "10000",
		WorkflowStatus: domain.WorkflowActive,
		Lines:          []domain.LineItem{retained, added},
	}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.NoError(t, err)
	storage.AssertExpectations(t)
	for _, line := range desired.Lines {
		assert.Equal(t, orderID, line.OrderID)
	}
}

func TestUpdateOrder_ActivationMaterializesAndPromotes(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	line := domain.LineItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		Number:        "10000-1",
		ReceiptStatus: domain.ReceiptPending,
	}

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowDraft}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{line}, nil)
	storage.On("UpdateLine", mock.Anything, mock.Anything).Return(nil)
	storage.On("UpdateOrderSummary", mock.Anything, mock.Anything).Return(nil)

	instanceID := uuid.New()
	materializer.On("Materialize", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			l := args.Get(1).(*domain.LineItem)
			l.InstanceID = &instanceID
		}).
		Return([]uuid.UUID{uuid.New()}, nil)

	desired := &domain.Order{Number: "10000", WorkflowStatus: domain.WorkflowActive}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.NoError(t, err)
	require.Len(t, desired.Lines, 1)
	assert.NotNil(t, desired.DateOrdered)
	assert.Equal(t, domain.ReceiptAwaiting, desired.Lines[0].ReceiptStatus)
	require.NotNil(t, desired.Lines[0].InstanceID)
	assert.Equal(t, instanceID, *desired.Lines[0].InstanceID)
	materializer.AssertExpectations(t)
}

func TestUpdateOrder_MaterializationFailureAborts(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	line := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-1"}

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowDraft}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{line}, nil)

	materializer.On("Materialize", mock.Anything, mock.Anything).
		Return(nil, shared.ErrInventory)

	desired := &domain.Order{Number: "10000", WorkflowStatus: domain.WorkflowActive}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInventory))

	var list *shared.ErrorList
	require.True(t, errors.As(err, &list))
	storage.AssertNotCalled(t, "UpdateOrderSummary", mock.Anything, mock.Anything)
}

func TestUpdateOrder_MaterializationFailuresAreAggregated(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	lineA := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-1"}
	lineB := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-2"}

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowDraft}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{lineA, lineB}, nil)

	materializer.On("Materialize", mock.Anything, mock.MatchedBy(func(l *domain.LineItem) bool {
		return l.ID == lineA.ID
	})).Return(nil, shared.ErrInventory)
	materializer.On("Materialize", mock.Anything, mock.MatchedBy(func(l *domain.LineItem) bool {
		return l.ID == lineB.ID
	})).Return(nil, shared.ErrInventory)

	desired := &domain.Order{Number: "10000", WorkflowStatus: domain.WorkflowActive}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.Error(t, err)
	var list *shared.ErrorList
	require.True(t, errors.As(err, &list))
	// Both line failures are reported: one terminal, one accumulated
	assert.Len(t, list.Errors, 2)
	storage.AssertNotCalled(t, "UpdateOrderSummary", mock.Anything, mock.Anything)
}

func TestUpdateOrder_PartialLineFailureIsAggregated(t *testing.T) {
	storage := new(mockStorage)
	materializer := new(mockMaterializer)
	service := NewOrderUpdateService(storage, materializer, nil)

	orderID := uuid.New()
	lineA := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-1"}
	lineB := domain.LineItem{ID: uuid.New(), OrderID: orderID, Number: "10000-2"}

	stored := &domain.Order{ID: orderID, Number: "10000", WorkflowStatus: domain.WorkflowActive}
	storage.On("GetOrder", mock.Anything, orderID).Return(stored, nil)
	storage.On("GetLines", mock.Anything, orderID).Return([]domain.LineItem{lineA, lineB}, nil)
	storage.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == lineA.ID
	})).Return(shared.ErrCollaborator)
	storage.On("UpdateLine", mock.Anything, mock.MatchedBy(func(l domain.LineItem) bool {
		return l.ID == lineB.ID
	})).Return(shared.ErrCollaborator)

	desired := &domain.Order{
		Number:         "10000",
		WorkflowStatus: domain.WorkflowActive,
		Lines:          []domain.LineItem{lineA, lineB},
	}
	err := service.UpdateOrder(context.Background(), orderID, desired)

	require.Error(t, err)
	var list *shared.ErrorList
	require.True(t, errors.As(err, &list))
	// Both branch failures are reported: one terminal, one accumulated
	assert.Len(t, list.Errors, 2)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// DrawingRepository is a mock for repository.DrawingRepository.
type DrawingRepository struct {
	mock.Mock
}

func (m *DrawingRepository) Create(ctx context.Context, tenantID string, drw *drawing.Drawing) error {
	args := m.Called(ctx, tenantID, drw)
	return args.Error(0)
}

func (m *DrawingRepository) Get(ctx context.Context, tenantID, id string) (*drawing.Drawing, error) {
	args := m.Called(ctx, tenantID, id)
	if drw, ok := args.Get(0).(*drawing.Drawing); ok {
		return drw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DrawingRepository) List(ctx context.Context, tenantID string) ([]drawing.Drawing, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]drawing.Drawing); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DrawingRepository) RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error {
	args := m.Called(ctx, tenantID, drawingIDs)
	return args.Error(0)
}

// ComponentRepository is a mock for repository.ComponentRepository.
type ComponentRepository struct {
	mock.Mock
}

func (m *ComponentRepository) Create(ctx context.Context, tenantID string, comp *component.Component) error {
	args := m.Called(ctx, tenantID, comp)
	return args.Error(0)
}

func (m *ComponentRepository) Get(ctx context.Context, tenantID, id string) (*component.Component, error) {
	args := m.Called(ctx, tenantID, id)
	if comp, ok := args.Get(0).(*component.Component); ok {
		return comp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ComponentRepository) ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]component.Component, error) {
	args := m.Called(ctx, tenantID, drawingID)
	if list, ok := args.Get(0).([]component.Component); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ComponentRepository) UpdateMilestones(ctx context.Context, tenantID string, comp *component.Component, expectedRevision int64) error {
	args := m.Called(ctx, tenantID, comp, expectedRevision)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchRepository is a mock for repository.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, tenantID, query string, opts component.SearchOptions) ([]component.SearchResult, error) {
	args := m.Called(ctx, tenantID, query, opts)
	if list, ok := args.Get(0).([]component.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// OfflineQueueRepository is a mock for repository.OfflineQueueRepository.
type OfflineQueueRepository struct {
	mock.Mock
}

func (m *OfflineQueueRepository) Enqueue(ctx context.Context, tenantID string, upd *component.QueuedUpdate) error {
	args := m.Called(ctx, tenantID, upd)
	return args.Error(0)
}

func (m *OfflineQueueRepository) ListPending(ctx context.Context, tenantID string) ([]component.QueuedUpdate, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]component.QueuedUpdate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OfflineQueueRepository) MarkFlushed(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// NetworkStatus is a mock for component.NetworkStatus.
type NetworkStatus struct {
	mock.Mock
}

func (m *NetworkStatus) Online() bool {
	args := m.Called()
	return args.Bool(0)
}

package component_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	repository "github.com/pipetally/pipetally/internal/repository/reperr"
	"github.com/pipetally/pipetally/internal/repository/mocks"
)

type serviceFixture struct {
	components *mocks.ComponentRepository
	drawings   *mocks.DrawingRepository
	activities *mocks.ActivityRepository
	search     *mocks.SearchRepository
	queue      *mocks.OfflineQueueRepository
	network    *mocks.NetworkStatus
	svc        *component.Service
}

func newFixture(online bool) *serviceFixture {
	f := &serviceFixture{
		components: &mocks.ComponentRepository{},
		drawings:   &mocks.DrawingRepository{},
		activities: &mocks.ActivityRepository{},
		search:     &mocks.SearchRepository{},
		queue:      &mocks.OfflineQueueRepository{},
		network:    &mocks.NetworkStatus{},
	}
	f.network.On("Online").Return(online).Maybe()
	f.svc = component.NewService(f.components, f.drawings, f.activities, f.search, f.queue, f.network, nil)
	return f
}

func storedValve() *component.Component {
	comp := valveComponent()
	comp.DrawingID = "d1"
	comp.CanUpdate = true
	comp.Revision = 3
	comp.Template.Milestones[1].IsPartial = true
	return comp
}

func TestComponentService_UpdateMilestone_DiscreteCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.MatchedBy(func(c *component.Component) bool {
		return c.Milestones["Test"] == 100 && c.Revision == 4
	}), int64(3)).Return(nil)
	f.drawings.On("RecomputeProgress", ctx, "tenant1", []string{"d1"}).Return(nil)
	f.activities.On("Log", ctx, "tenant1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeMilestoneUpdated && e.Milestone == "Test"
	})).Return(nil)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Test",
		Percent:     100,
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.False(t, res.RolledBack)
	require.False(t, res.Queued)
	f.components.AssertNumberOfCalls(t, "UpdateMilestones", 1)
}

func TestComponentService_UpdateMilestone_UncheckRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve() // Receive is at 100 via legacy boolean

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Receive",
		Percent:     0,
	})
	require.ErrorIs(t, err, component.ErrRollbackConfirmationRequired)
	f.components.AssertNotCalled(t, "UpdateMilestones")
	f.activities.AssertNotCalled(t, "Log")
}

func TestComponentService_UpdateMilestone_ConfirmedRollbackStoresNumeric(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.MatchedBy(func(c *component.Component) bool {
		// The legacy boolean is replaced by a numeric zero, never written back.
		v, isInt := c.Milestones["Receive"].(int)
		return isInt && v == 0
	}), int64(3)).Return(nil)
	f.drawings.On("RecomputeProgress", ctx, "tenant1", []string{"d1"}).Return(nil)
	f.activities.On("Log", ctx, "tenant1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeMilestoneRolledBack
	})).Return(nil)

	conf, err := component.NewConfirmation(component.ReasonDataEntryError, "")
	require.NoError(t, err)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID:  "c1",
		Milestone:    "Receive",
		Percent:      0,
		Confirmation: &conf,
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.True(t, res.RolledBack)
}

func TestComponentService_UpdateMilestone_PartialIncreaseNoGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve() // Install is partial at 50

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.Anything, int64(3)).Return(nil)
	f.drawings.On("RecomputeProgress", ctx, "tenant1", []string{"d1"}).Return(nil)
	f.activities.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     75,
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.False(t, res.RolledBack)
}

func TestComponentService_UpdateMilestone_PartialDecreaseGated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     25,
	})
	require.ErrorIs(t, err, component.ErrRollbackConfirmationRequired)
	f.components.AssertNotCalled(t, "UpdateMilestones")
}

func TestComponentService_UpdateMilestone_NoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     50,
	})
	require.NoError(t, err)
	require.False(t, res.Changed)
	f.components.AssertNotCalled(t, "UpdateMilestones")
	f.activities.AssertNotCalled(t, "Log")
}

func TestComponentService_UpdateMilestone_AggregateStoresLinearFeet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := aggregatePipe(100)
	comp.DrawingID = "d1"
	comp.CanUpdate = true
	comp.Revision = 1

	f.components.On("Get", ctx, "tenant1", "agg1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.MatchedBy(func(c *component.Component) bool {
		return c.Milestones["Install_LF"] == 60.0 && c.Milestones["Install"] == nil
	}), int64(1)).Return(nil)
	f.drawings.On("RecomputeProgress", ctx, "tenant1", []string{"d1"}).Return(nil)
	f.activities.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "agg1",
		Milestone:   "Install",
		Percent:     60,
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
}

func TestComponentService_UpdateMilestone_Conflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.Anything, int64(3)).
		Return(repository.ErrConflict)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     75,
	})
	require.ErrorIs(t, err, component.ErrConflict)
}

func TestComponentService_UpdateMilestone_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	f.components.On("Get", ctx, "tenant1", "missing").Return(nil, repository.ErrNotFound)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "missing",
		Milestone:   "Install",
		Percent:     75,
	})
	require.ErrorIs(t, err, component.ErrComponentNotFound)
}

func TestComponentService_UpdateMilestone_Forbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()
	comp.CanUpdate = false

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     75,
	})
	require.ErrorIs(t, err, component.ErrUpdateForbidden)
}

func TestComponentService_UpdateMilestone_UnknownMilestone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Paint",
		Percent:     50,
	})
	require.ErrorIs(t, err, component.ErrUnknownMilestone)
}

func TestComponentService_UpdateMilestone_DiscreteRejectsIntermediate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Test",
		Percent:     50,
	})
	require.ErrorIs(t, err, component.ErrValueOutOfRange)
}

func TestComponentService_UpdateMilestone_OfflineQueues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.queue.On("Enqueue", ctx, "tenant1", mock.MatchedBy(func(u *component.QueuedUpdate) bool {
		return u.ComponentID == "c1" && u.Milestone == "Install" && u.Percent == 75 && u.ID != ""
	})).Return(nil)

	res, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     75,
	})
	require.NoError(t, err)
	require.True(t, res.Queued)
	require.False(t, res.Changed)
	f.components.AssertNotCalled(t, "UpdateMilestones")
}

func TestComponentService_UpdateMilestone_OfflineStillGatesRollback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	comp := storedValve()

	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)

	_, err := f.svc.UpdateMilestone(ctx, "tenant1", component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Install",
		Percent:     25,
	})
	require.ErrorIs(t, err, component.ErrRollbackConfirmationRequired)
	f.queue.AssertNotCalled(t, "Enqueue")
}

func TestComponentService_FlushQueue_Offline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)

	_, err := f.svc.FlushQueue(ctx, "tenant1")
	require.ErrorIs(t, err, component.ErrOffline)
}

func TestComponentService_FlushQueue_DrainsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	comp := storedValve()

	f.queue.On("ListPending", ctx, "tenant1").Return([]component.QueuedUpdate{
		{ID: "q1", ComponentID: "c1", Milestone: "Install", Percent: 75},
		{ID: "q2", ComponentID: "c1", Milestone: "Test", Percent: 100},
	}, nil)
	f.components.On("Get", ctx, "tenant1", "c1").Return(comp, nil)
	f.components.On("UpdateMilestones", ctx, "tenant1", mock.Anything, mock.Anything).Return(nil)
	f.drawings.On("RecomputeProgress", ctx, "tenant1", []string{"d1"}).Return(nil)
	f.activities.On("Log", ctx, "tenant1", mock.Anything).Return(nil)
	f.queue.On("MarkFlushed", ctx, "tenant1", "q1").Return(nil)
	f.queue.On("MarkFlushed", ctx, "tenant1", "q2").Return(nil)

	res, err := f.svc.FlushQueue(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 2, res.Flushed)
	require.Equal(t, 0, res.Failed)
	f.queue.AssertNumberOfCalls(t, "MarkFlushed", 2)
}

func TestComponentService_FlushQueue_KeepsFailedEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	f.queue.On("ListPending", ctx, "tenant1").Return([]component.QueuedUpdate{
		{ID: "q1", ComponentID: "gone", Milestone: "Install", Percent: 75},
	}, nil)
	f.components.On("Get", ctx, "tenant1", "gone").Return(nil, repository.ErrNotFound)

	res, err := f.svc.FlushQueue(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 0, res.Flushed)
	require.Equal(t, 1, res.Failed)
	f.queue.AssertNotCalled(t, "MarkFlushed")
}

func TestComponentService_Search_RequiresQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	_, err := f.svc.Search(ctx, "tenant1", "   ", component.SearchOptions{})
	require.ErrorIs(t, err, component.ErrInvalidInput)
}

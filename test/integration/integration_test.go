package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
	"github.com/pipetally/pipetally/internal/network"
	"github.com/pipetally/pipetally/internal/sqlite"
)

type testEnv struct {
	db            *sqlite.DB
	componentRepo *sqlite.ComponentRepository
	queueRepo     *sqlite.OfflineQueueRepository
	netStatus     *network.Status

	drawingSvc   *drawing.Service
	componentSvc *component.Service
	activitySvc  *activity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	drawingRepo := sqlite.NewDrawingRepository(db)
	componentRepo := sqlite.NewComponentRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)
	queueRepo := sqlite.NewOfflineQueueRepository(db)

	netStatus := network.NewStatus("", time.Second)

	drawingSvc := drawing.NewService(drawingRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	componentSvc := component.NewService(componentRepo, drawingRepo, activityRepo, searchRepo, queueRepo, netStatus, nil)

	return &testEnv{
		db:            db,
		componentRepo: componentRepo,
		queueRepo:     queueRepo,
		netStatus:     netStatus,
		drawingSvc:    drawingSvc,
		componentSvc:  componentSvc,
		activitySvc:   activitySvc,
	}
}

func (env *testEnv) seedDrawing(t *testing.T, tenantID, number string) *drawing.Drawing {
	t.Helper()
	drw, err := env.drawingSvc.Create(context.Background(), tenantID, drawing.CreateRequest{
		Number: number,
		Title:  "Cooling water supply",
		Area:   &drawing.Ref{ID: "a1", Name: "Area 100"},
	})
	require.NoError(t, err)
	return drw
}

func (env *testEnv) seedValve(t *testing.T, tenantID, drawingID, id string) *component.Component {
	t.Helper()
	now := time.Now()
	comp := &component.Component{
		ID:          id,
		DrawingID:   drawingID,
		Type:        component.TypeValve,
		IdentityKey: component.IdentityKey{"tag": "V-101"},
		Display:     "V-101",
		Template: component.Template{
			Name: "valve",
			Milestones: []component.MilestoneConfig{
				{Name: "Receive", Label: "REC", Order: 1, Weight: 40},
				{Name: "Install", Label: "INST", Order: 2, IsPartial: true, Weight: 60},
			},
		},
		Milestones: map[string]any{},
		CanUpdate:  true,
		Attributes: component.Attributes{LineNumbers: []string{"101"}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, env.componentRepo.Create(context.Background(), tenantID, comp))
	return comp
}

func (env *testEnv) seedAggregatePipe(t *testing.T, tenantID, drawingID, id string, totalLF float64) *component.Component {
	t.Helper()
	now := time.Now()
	comp := &component.Component{
		ID:          id,
		DrawingID:   drawingID,
		Type:        component.TypeThreadedPipe,
		IdentityKey: component.IdentityKey{"pipe_id": "TP-1401_AGG"},
		Display:     "TP-1401",
		Template: component.Template{
			Name: "threaded_pipe",
			Milestones: []component.MilestoneConfig{
				{Name: "Install", Label: "INST", Order: 1, IsPartial: true, Weight: 100},
			},
		},
		Milestones: map[string]any{},
		CanUpdate:  true,
		Attributes: component.Attributes{
			TotalLinearFeet: &totalLF,
			Size:            `2"`,
			LineNumbers:     []string{"101", "205"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, env.componentRepo.Create(context.Background(), tenantID, comp))
	return comp
}

func TestIntegration_MilestoneUpdateRollsUpProgress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	drw := env.seedDrawing(t, tenantID, "P-101")
	env.seedValve(t, tenantID, drw.ID, "c1")

	result, err := env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "c1",
		Milestone:   "Receive",
		Percent:     100,
	})
	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, 40, result.Component.PercentComplete)

	// The write recomputed the drawing rollup.
	got, err := env.drawingSvc.Get(ctx, tenantID, drw.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Progress.TotalComponents)
	require.Equal(t, 40, got.Progress.AvgPercentComplete)

	// And left an activity trail.
	entries, err := env.activitySvc.GetRecent(ctx, tenantID, activity.ListOptions{DrawingID: drw.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeMilestoneUpdated, entries[0].Type)
}

func TestIntegration_RollbackGate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	drw := env.seedDrawing(t, tenantID, "P-101")
	env.seedValve(t, tenantID, drw.ID, "c1")

	_, err := env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "c1", Milestone: "Install", Percent: 50,
	})
	require.NoError(t, err)

	// Decreasing without confirmation is refused.
	_, err = env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "c1", Milestone: "Install", Percent: 25,
	})
	require.ErrorIs(t, err, component.ErrRollbackConfirmationRequired)

	conf, err := component.NewConfirmation(component.ReasonFailedInspection, "hydro failed at flange")
	require.NoError(t, err)
	result, err := env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "c1", Milestone: "Install", Percent: 25, Confirmation: &conf,
	})
	require.NoError(t, err)
	require.True(t, result.RolledBack)

	rolledBack := activity.TypeMilestoneRolledBack
	entries, err := env.activitySvc.GetRecent(ctx, tenantID, activity.ListOptions{Type: &rolledBack})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Details, "failed_inspection")
}

func TestIntegration_OfflineQueueFlush(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	drw := env.seedDrawing(t, tenantID, "P-101")
	env.seedValve(t, tenantID, drw.ID, "c1")

	env.netStatus.SetOnline(false)

	result, err := env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "c1", Milestone: "Receive", Percent: 100,
	})
	require.NoError(t, err)
	require.True(t, result.Queued)

	// Nothing is persisted on the component while queued.
	comp, err := env.componentSvc.Get(ctx, tenantID, "c1")
	require.NoError(t, err)
	require.Equal(t, 0, comp.EffectivePercent("Receive"))

	// Flushing while still offline is refused.
	_, err = env.componentSvc.FlushQueue(ctx, tenantID)
	require.ErrorIs(t, err, component.ErrOffline)

	env.netStatus.SetOnline(true)

	flush, err := env.componentSvc.FlushQueue(ctx, tenantID)
	require.NoError(t, err)
	require.Equal(t, 1, flush.Flushed)
	require.Equal(t, 0, flush.Failed)

	comp, err = env.componentSvc.Get(ctx, tenantID, "c1")
	require.NoError(t, err)
	require.Equal(t, 100, comp.EffectivePercent("Receive"))

	pending, err := env.queueRepo.ListPending(ctx, tenantID)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestIntegration_AggregateStoresLinearFeet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	drw := env.seedDrawing(t, tenantID, "P-101")
	env.seedAggregatePipe(t, tenantID, drw.ID, "agg1", 100)

	result, err := env.componentSvc.UpdateMilestone(ctx, tenantID, component.UpdateMilestoneRequest{
		ComponentID: "agg1", Milestone: "Install", Percent: 60,
	})
	require.NoError(t, err)
	require.True(t, result.Changed)

	comp, err := env.componentSvc.Get(ctx, tenantID, "agg1")
	require.NoError(t, err)
	require.Equal(t, 60.0, comp.Milestones["Install_LF"])
	require.Nil(t, comp.Milestones["Install"])

	ctl := component.ResolveControl(comp, "Install")
	require.Equal(t, component.ControlPartialAggregate, ctl.Kind)
	require.Equal(t, 60, ctl.Percent)
	require.Equal(t, `2" • 100 LF`, component.DisplayIdentity(comp))
}

func TestIntegration_SearchFindsComponents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tenantID := "tenant1"

	drw := env.seedDrawing(t, tenantID, "P-101")
	env.seedAggregatePipe(t, tenantID, drw.ID, "agg1", 100)
	env.seedValve(t, tenantID, drw.ID, "c1")

	// Hyphenated display identity.
	results, err := env.componentSvc.Search(ctx, tenantID, "TP-1401", component.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "agg1", results[0].Component.ID)

	// Line number.
	results, err = env.componentSvc.Search(ctx, tenantID, "205", component.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Shared line number matches both.
	results, err = env.componentSvc.Search(ctx, tenantID, "101", component.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

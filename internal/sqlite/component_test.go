package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
	"github.com/pipetally/pipetally/internal/repository"
)

func seedComponent(t *testing.T, db *DB, tenantID, drawingID, id string) *component.Component {
	t.Helper()
	repo := NewComponentRepository(db)
	now := time.Now()
	totalLF := 100.0
	comp := &component.Component{
		ID:          id,
		TenantID:    tenantID,
		DrawingID:   drawingID,
		Type:        component.TypeThreadedPipe,
		IdentityKey: component.IdentityKey{"pipe_id": "TP-1401_AGG"},
		Display:     "TP-1401",
		Area:        &drawing.Ref{ID: "a2", Name: "Area 200"},
		Template: component.Template{
			Name: "threaded_pipe",
			Milestones: []component.MilestoneConfig{
				{Name: "Receive", Label: "REC", Order: 1, Weight: 10},
				{Name: "Install", Label: "INST", Order: 2, IsPartial: true, Weight: 90},
			},
		},
		Milestones: map[string]any{
			"Receive":    true,
			"Install_LF": 30.0,
		},
		PercentComplete: 37,
		CanUpdate:       true,
		Attributes: component.Attributes{
			TotalLinearFeet: &totalLF,
			Size:            `2"`,
			LineNumbers:     []string{"101", "205"},
		},
		Revision:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), tenantID, comp))
	return comp
}

func TestComponentRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewComponentRepository(db)

	seedDrawing(t, db, "tenant1", "d1", "P-101")
	seedComponent(t, db, "tenant1", "d1", "c1")

	comp, err := repo.Get(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, component.TypeThreadedPipe, comp.Type)
	require.Equal(t, "TP-1401_AGG", comp.IdentityKey.PipeID())
	require.Len(t, comp.Template.Milestones, 2)
	require.Equal(t, true, comp.Milestones["Receive"])
	require.Equal(t, 30.0, comp.Milestones["Install_LF"])
	require.NotNil(t, comp.Attributes.TotalLinearFeet)
	require.Equal(t, []string{"101", "205"}, comp.Attributes.LineNumbers)
	require.NotNil(t, comp.Area)
	require.Equal(t, "Area 200", comp.Area.Name)
}

func TestComponentRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewComponentRepository(db)

	_, err := repo.Get(context.Background(), "tenant1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestComponentRepository_CreateMissingDrawing(t *testing.T) {
	db := NewTestDB(t)
	seedDrawing(t, db, "tenant1", "d1", "P-101")

	repo := NewComponentRepository(db)
	comp := &component.Component{
		ID:         "c1",
		DrawingID:  "missing",
		Type:       component.TypeValve,
		Display:    "V-1",
		Milestones: map[string]any{},
	}
	err := repo.Create(context.Background(), "tenant1", comp)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestComponentRepository_ListByDrawing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewComponentRepository(db)

	seedDrawing(t, db, "tenant1", "d1", "P-101")
	seedDrawing(t, db, "tenant1", "d2", "P-102")
	seedComponent(t, db, "tenant1", "d1", "c1")
	seedComponent(t, db, "tenant1", "d1", "c2")
	seedComponent(t, db, "tenant1", "d2", "c3")

	components, err := repo.ListByDrawing(ctx, "tenant1", "d1")
	require.NoError(t, err)
	require.Len(t, components, 2)
	for _, comp := range components {
		require.Equal(t, "d1", comp.DrawingID)
	}
}

func TestComponentRepository_UpdateMilestones(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewComponentRepository(db)

	seedDrawing(t, db, "tenant1", "d1", "P-101")
	comp := seedComponent(t, db, "tenant1", "d1", "c1")

	comp.Milestones["Install_LF"] = 60.0
	comp.PercentComplete = 64
	comp.Revision = 1
	comp.UpdatedAt = time.Now()
	require.NoError(t, repo.UpdateMilestones(ctx, "tenant1", comp, 0))

	got, err := repo.Get(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, 60.0, got.Milestones["Install_LF"])
	require.Equal(t, 64, got.PercentComplete)
	require.Equal(t, int64(1), got.Revision)
}

func TestComponentRepository_UpdateMilestonesConflict(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewComponentRepository(db)

	seedDrawing(t, db, "tenant1", "d1", "P-101")
	comp := seedComponent(t, db, "tenant1", "d1", "c1")

	comp.Revision = 1
	require.NoError(t, repo.UpdateMilestones(ctx, "tenant1", comp, 0))

	// A second writer with a stale revision loses.
	comp.Revision = 1
	err := repo.UpdateMilestones(ctx, "tenant1", comp, 0)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestComponentRepository_UpdateMilestonesNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewComponentRepository(db)

	comp := &component.Component{ID: "missing", Milestones: map[string]any{}}
	err := repo.UpdateMilestones(context.Background(), "tenant1", comp, 0)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pipetally/pipetally/internal/domain/activity"
	repository "github.com/pipetally/pipetally/internal/repository/reperr"
)

// Service handles component business logic.
type Service struct {
	components ComponentRepository
	drawings   DrawingRepository
	activities ActivityRepository
	search     SearchRepository
	queue      OfflineQueue
	network    NetworkStatus
	logger     *slog.Logger
}

// NewService creates a new component service.
func NewService(
	components ComponentRepository,
	drawings DrawingRepository,
	activities ActivityRepository,
	search SearchRepository,
	queue OfflineQueue,
	network NetworkStatus,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		components: components,
		drawings:   drawings,
		activities: activities,
		search:     search,
		queue:      queue,
		network:    network,
		logger:     logger,
	}
}

// QueuedUpdate is a milestone write captured while offline, replayed on
// flush in capture order.
type QueuedUpdate struct {
	ID           string        `json:"id"`
	ComponentID  string        `json:"component_id"`
	Milestone    string        `json:"milestone"`
	Percent      int           `json:"percent"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// UpdateMilestoneRequest is a request to set one milestone's value.
// Percent is the canonical value: 0 or 100 for discrete milestones, 0-100
// otherwise. A decreasing write must carry a Confirmation.
type UpdateMilestoneRequest struct {
	ComponentID  string        `json:"component_id"`
	Milestone    string        `json:"milestone"`
	Percent      int           `json:"percent"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// UpdateResult reports the outcome of a milestone update.
type UpdateResult struct {
	Component  *Component `json:"component,omitempty"`
	Changed    bool       `json:"changed"`
	Queued     bool       `json:"queued"`
	RolledBack bool       `json:"rolled_back"`
}

// Get retrieves a component by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Component, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: component ID is required", ErrInvalidInput)
	}
	comp, err := s.components.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComponentNotFound
		}
		return nil, fmt.Errorf("getting component: %w", err)
	}
	return comp, nil
}

// ListByDrawing returns all components of a drawing.
func (s *Service) ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]Component, error) {
	if strings.TrimSpace(drawingID) == "" {
		return nil, fmt.Errorf("%w: drawing ID is required", ErrInvalidInput)
	}
	return s.components.ListByDrawing(ctx, tenantID, drawingID)
}

// Search performs full-text search over component identity and line
// numbers.
func (s *Service) Search(ctx context.Context, tenantID, query string, opts SearchOptions) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return s.search.Search(ctx, tenantID, query, opts)
}

// UpdateMilestone applies one milestone write: validate against the
// template, gate decreasing values behind rollback confirmation, queue
// while offline, and otherwise commit exactly one persisted update with
// optimistic concurrency.
func (s *Service) UpdateMilestone(ctx context.Context, tenantID string, req UpdateMilestoneRequest) (*UpdateResult, error) {
	if strings.TrimSpace(req.ComponentID) == "" || strings.TrimSpace(req.Milestone) == "" {
		return nil, fmt.Errorf("%w: component ID and milestone are required", ErrInvalidInput)
	}

	comp, err := s.Get(ctx, tenantID, req.ComponentID)
	if err != nil {
		return nil, err
	}
	if !comp.CanUpdate {
		return nil, ErrUpdateForbidden
	}

	cfg, ok := comp.MilestoneConfigFor(req.Milestone)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMilestone, req.Milestone)
	}
	if err := ValidateWritePercent(req.Percent); err != nil {
		return nil, err
	}
	if !cfg.IsPartial && req.Percent != 0 && req.Percent != 100 {
		return nil, fmt.Errorf("%w: discrete milestone accepts only 0 or 100", ErrValueOutOfRange)
	}

	ctl := ResolveControl(comp, req.Milestone)
	if ctl.Percent == req.Percent {
		return &UpdateResult{Component: comp, Changed: false}, nil
	}

	rollback := EvaluateRollback(ctl.Percent, req.Percent) == DecisionRequireConfirmation
	if rollback {
		if req.Confirmation == nil {
			return nil, ErrRollbackConfirmationRequired
		}
		if req.Confirmation.ReasonLabel == "" {
			if label, known := req.Confirmation.Reason.Label(); known {
				req.Confirmation.ReasonLabel = label
			}
		}
		if err := ValidateConfirmation(*req.Confirmation); err != nil {
			return nil, err
		}
	}

	if s.network != nil && !s.network.Online() {
		upd := &QueuedUpdate{
			ID:           uuid.New().String(),
			ComponentID:  req.ComponentID,
			Milestone:    req.Milestone,
			Percent:      req.Percent,
			Confirmation: req.Confirmation,
			CreatedAt:    time.Now(),
		}
		if err := s.queue.Enqueue(ctx, tenantID, upd); err != nil {
			return nil, fmt.Errorf("queueing milestone update: %w", err)
		}
		s.logger.Info("milestone update queued offline",
			"component_id", req.ComponentID, "milestone", req.Milestone)
		return &UpdateResult{Component: comp, Queued: true}, nil
	}

	if err := s.commit(ctx, tenantID, comp, ctl, cfg, req, rollback); err != nil {
		return nil, err
	}
	return &UpdateResult{Component: comp, Changed: true, RolledBack: rollback}, nil
}

// commit persists one milestone write and its side effects. Aggregate
// threaded-pipe milestones store absolute linear feet under the LF key;
// everything else stores the numeric percentage. Legacy booleans are
// never written back.
func (s *Service) commit(ctx context.Context, tenantID string, comp *Component, ctl Control, cfg MilestoneConfig, req UpdateMilestoneRequest, rollback bool) error {
	expected := comp.Revision
	previous := ctl.Percent

	milestones := comp.CloneMilestones()
	if ctl.Kind == ControlPartialAggregate {
		milestones[req.Milestone+LinearFeetKeySuffix] = ToStoredLF(req.Percent, ctl.TotalLF)
	} else {
		milestones[req.Milestone] = req.Percent
	}
	comp.Milestones = milestones
	comp.PercentComplete = WeightedPercentComplete(comp)
	comp.Revision = expected + 1
	comp.UpdatedAt = time.Now()

	if err := s.components.UpdateMilestones(ctx, tenantID, comp, expected); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("updating milestones: %w", err)
	}

	if err := s.drawings.RecomputeProgress(ctx, tenantID, []string{comp.DrawingID}); err != nil {
		s.logger.Warn("failed to recompute drawing progress",
			"drawing_id", comp.DrawingID, "error", err)
	}

	entryType := activity.TypeMilestoneUpdated
	summary := fmt.Sprintf("%s %s set to %d%%", comp.Display, cfg.Label, req.Percent)
	details := map[string]any{"from": previous, "to": req.Percent}
	if rollback {
		entryType = activity.TypeMilestoneRolledBack
		summary = fmt.Sprintf("%s %s rolled back from %d%% to %d%%", comp.Display, cfg.Label, previous, req.Percent)
		details["confirmation"] = req.Confirmation
	}
	detailsJSON, _ := json.Marshal(details)

	componentID := comp.ID
	entry := &activity.Entry{
		TenantID:    tenantID,
		DrawingID:   comp.DrawingID,
		ComponentID: &componentID,
		Milestone:   req.Milestone,
		Type:        entryType,
		Summary:     summary,
		Details:     string(detailsJSON),
		CreatedAt:   time.Now(),
	}
	if err := s.activities.Log(ctx, tenantID, entry); err != nil {
		s.logger.Warn("failed to log milestone activity",
			"component_id", comp.ID, "error", err)
	}
	return nil
}

// FlushResult reports the outcome of draining the offline queue.
type FlushResult struct {
	Flushed int `json:"flushed"`
	Failed  int `json:"failed"`
}

// FlushQueue replays queued offline updates in capture order. It requires
// the network to be back; entries that fail to apply are kept for the next
// flush.
func (s *Service) FlushQueue(ctx context.Context, tenantID string) (*FlushResult, error) {
	if s.network != nil && !s.network.Online() {
		return nil, ErrOffline
	}

	pending, err := s.queue.ListPending(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing pending updates: %w", err)
	}

	result := &FlushResult{}
	for _, upd := range pending {
		req := UpdateMilestoneRequest{
			ComponentID:  upd.ComponentID,
			Milestone:    upd.Milestone,
			Percent:      upd.Percent,
			Confirmation: upd.Confirmation,
		}
		if _, err := s.UpdateMilestone(ctx, tenantID, req); err != nil {
			result.Failed++
			s.logger.Warn("failed to flush queued update",
				"update_id", upd.ID, "component_id", upd.ComponentID, "error", err)
			continue
		}
		if err := s.queue.MarkFlushed(ctx, tenantID, upd.ID); err != nil {
			s.logger.Warn("failed to mark update flushed", "update_id", upd.ID, "error", err)
		}
		result.Flushed++
	}

	if result.Flushed > 0 {
		detailsJSON, _ := json.Marshal(result)
		entry := &activity.Entry{
			TenantID:  tenantID,
			Type:      activity.TypeQueueFlushed,
			Summary:   fmt.Sprintf("flushed %d queued milestone updates", result.Flushed),
			Details:   string(detailsJSON),
			CreatedAt: time.Now(),
		}
		if err := s.activities.Log(ctx, tenantID, entry); err != nil {
			s.logger.Warn("failed to log queue flush", "error", err)
		}
	}
	return result, nil
}

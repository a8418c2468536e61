package drawing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	repository "github.com/pipetally/pipetally/internal/repository/reperr"
)

// Service handles drawing operations.
type Service struct {
	repo   DrawingRepository
	logger *slog.Logger
}

// NewService creates a new drawing service.
func NewService(repo DrawingRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines drawing creation inputs.
type CreateRequest struct {
	ID          string
	Number      string
	Title       string
	Spec        string
	Area        *Ref
	System      *Ref
	TestPackage *Ref
}

// Create creates a new drawing. The drawing number is normalized to
// uppercase with surrounding whitespace removed.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Drawing, error) {
	number := strings.ToUpper(strings.TrimSpace(req.Number))
	if number == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	drw := &Drawing{
		ID:          id,
		TenantID:    tenantID,
		Number:      number,
		Title:       req.Title,
		Spec:        req.Spec,
		Area:        req.Area,
		System:      req.System,
		TestPackage: req.TestPackage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, tenantID, drw); err != nil {
		return nil, fmt.Errorf("creating drawing: %w", err)
	}

	return drw, nil
}

// Get fetches a drawing by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Drawing, error) {
	drw, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, fmt.Errorf("getting drawing: %w", err)
	}
	return drw, nil
}

// List returns all drawings for a tenant in drawing-number order, with
// their current progress rollups.
func (s *Service) List(ctx context.Context, tenantID string) ([]Drawing, error) {
	return s.repo.List(ctx, tenantID)
}

// RecomputeProgress refreshes the progress rollups for the given drawings,
// or for every drawing of the tenant when drawingIDs is empty.
func (s *Service) RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error {
	if err := s.repo.RecomputeProgress(ctx, tenantID, drawingIDs); err != nil {
		return fmt.Errorf("recomputing drawing progress: %w", err)
	}
	return nil
}

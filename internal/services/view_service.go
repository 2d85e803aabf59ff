package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
)

type EventViewService struct {
	base
	viewsRepo models.EventViewsRepo
}

func NewEventViewService(viewsRepo models.EventViewsRepo, opts ...Option) *EventViewService {
	return &EventViewService{
		base:      newBase(opts),
		viewsRepo: viewsRepo,
	}
}

// TrackView records a visit. Failures are logged and never reach the visitor.
func (vs *EventViewService) TrackView(ctx context.Context, view *models.EventView) error {
	if view == nil {
		return fmt.Errorf("%w: view is nil", models.ErrInvalidInput)
	}
	if _, err := uuid.Parse(view.EventID); err != nil {
		return fmt.Errorf("%w: invalid event ID", models.ErrInvalidInput)
	}
	if strings.TrimSpace(view.SessionID) == "" {
		return fmt.Errorf("%w: session ID is required", models.ErrInvalidInput)
	}

	if err := vs.viewsRepo.TrackEventView(ctx, view); err != nil {
		vs.logger.WarnContext(ctx, "failed to track event view", "event_id", view.EventID, "error", err)
	}
	return nil
}

func (vs *EventViewService) GetStats(ctx context.Context, eventID uuid.UUID) (*models.EventViewStats, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid event ID", models.ErrInvalidInput)
	}
	stats, err := vs.viewsRepo.GetEventViewStats(ctx, eventID.String())
	stats, err = handleValue(ctx, vs.logger, vs.policy, "get_event_view_stats", stats, err)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &models.EventViewStats{EventID: eventID.String()}
	}
	return stats, nil
}

func (vs *EventViewService) EnsureIndexes(ctx context.Context) error {
	return vs.viewsRepo.EnsureIndexes(ctx)
}

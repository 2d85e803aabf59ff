package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
)

type SavedEventService struct {
	base
	savedRepo models.SavedEventsRepo
}

func NewSavedEventService(savedRepo models.SavedEventsRepo, opts ...Option) *SavedEventService {
	return &SavedEventService{
		base:      newBase(opts),
		savedRepo: savedRepo,
	}
}

func (ss *SavedEventService) SaveEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.SavedEvents, error) {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user ID or event ID", models.ErrInvalidInput)
	}
	saved, err := ss.savedRepo.SaveEvent(ctx, userID, eventID)
	if err != nil {
		return nil, handleMutation(ctx, ss.logger, ss.policy, "save_event", err)
	}
	return saved, nil
}

func (ss *SavedEventService) UnsaveEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return fmt.Errorf("%w: invalid user ID or event ID", models.ErrInvalidInput)
	}
	return handleMutation(ctx, ss.logger, ss.policy, "unsave_event", ss.savedRepo.UnsaveEvent(ctx, userID, eventID))
}

// GetSavedEvents returns the user's bookmarks, most recently saved first.
func (ss *SavedEventService) GetSavedEvents(ctx context.Context, userID uuid.UUID) ([]models.SavedEventItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user ID", models.ErrInvalidInput)
	}

	saved, err := ss.savedRepo.GetSavedEvents(ctx, userID)
	var items []models.SavedEventItem
	if err == nil {
		items = make([]models.SavedEventItem, 0, len(saved.Items))
		for _, item := range saved.Items {
			items = append(items, item)
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].SavedAt.After(items[j].SavedAt)
		})
	}
	return handleList(ctx, ss.logger, ss.policy, "get_saved_events", items, err)
}

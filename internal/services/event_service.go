package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/uploader"
)

type EventService struct {
	base
	eventsRepo   models.EventsRepo
	profilesRepo models.ProfileRepo
	images       uploader.ImageUploader
}

func NewEventService(eventsRepo models.EventsRepo, profilesRepo models.ProfileRepo, images uploader.ImageUploader, opts ...Option) *EventService {
	return &EventService{
		base:         newBase(opts),
		eventsRepo:   eventsRepo,
		profilesRepo: profilesRepo,
		images:       images,
	}
}

// CreateEvent stores a new unpublished event owned by ownerID. When ownerName
// is empty the organizer name is taken from the owner's profile.
func (es *EventService) CreateEvent(ctx context.Context, ownerID uuid.UUID, ownerName string, form models.EventFormData) (*models.Event, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid owner ID", models.ErrInvalidInput)
	}
	if err := models.Validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	if strings.TrimSpace(ownerName) == "" && es.profilesRepo != nil {
		profile, err := es.profilesRepo.GetProfile(ctx, ownerID)
		if err != nil {
			es.logger.WarnContext(ctx, "could not resolve organizer name", "user_id", ownerID, "error", err)
		} else {
			ownerName = profile.DisplayName()
		}
	}

	event := models.NewEvent(ownerID, ownerName, form, es.now())
	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, handleMutation(ctx, es.logger, es.policy, "create_event", err)
	}
	return created, nil
}

// GetUserEvents lists the owner's events still shown in My Events, newest first.
func (es *EventService) GetUserEvents(ctx context.Context, ownerID uuid.UUID) ([]models.Event, error) {
	events, err := es.eventsRepo.GetEventsByOrganizer(ctx, ownerID)
	return handleList(ctx, es.logger, es.policy, "get_user_events", events, err)
}

// GetPublishedEvents lists every publicly discoverable event by date.
func (es *EventService) GetPublishedEvents(ctx context.Context) ([]models.Event, error) {
	events, err := es.eventsRepo.GetPublishedEvents(ctx)
	return handleList(ctx, es.logger, es.policy, "get_published_events", events, err)
}

func (es *EventService) PublishEvent(ctx context.Context, eventID, ownerID uuid.UUID) error {
	now := es.now()
	return es.mutate(ctx, "publish_event", eventID, ownerID, map[string]interface{}{
		"is_published":            true,
		"is_visible_in_join_tab":  true,
		"is_visible_in_my_events": true,
		"published_at":            now,
		"updated_at":              now,
	})
}

// UpdateEvent applies the provided fields of upd. updated_at is always stamped,
// so an update with nothing provided still touches the row.
func (es *EventService) UpdateEvent(ctx context.Context, eventID, ownerID uuid.UUID, upd models.EventUpdate) error {
	cols := upd.Columns()
	cols["updated_at"] = es.now()
	return es.mutate(ctx, "update_event", eventID, ownerID, cols)
}

func (es *EventService) HideEventFromMyEvents(ctx context.Context, eventID, ownerID uuid.UUID) error {
	now := es.now()
	return es.mutate(ctx, "hide_from_my_events", eventID, ownerID, map[string]interface{}{
		"is_visible_in_my_events":   false,
		"deleted_from_my_events_at": now,
		"updated_at":                now,
	})
}

// HideEventFromJoinTab also unpublishes the event.
func (es *EventService) HideEventFromJoinTab(ctx context.Context, eventID, ownerID uuid.UUID) error {
	now := es.now()
	return es.mutate(ctx, "hide_from_join_tab", eventID, ownerID, map[string]interface{}{
		"is_visible_in_join_tab":   false,
		"is_published":             false,
		"deleted_from_join_tab_at": now,
		"updated_at":               now,
	})
}

func (es *EventService) RestoreEventToMyEvents(ctx context.Context, eventID, ownerID uuid.UUID) error {
	return es.mutate(ctx, "restore_to_my_events", eventID, ownerID, map[string]interface{}{
		"is_visible_in_my_events":   true,
		"deleted_from_my_events_at": nil,
		"updated_at":                es.now(),
	})
}

// UploadEventImage stores the file under the event's folder and returns its
// public URL. The event row is not touched; see UpdateEventImage.
func (es *EventService) UploadEventImage(ctx context.Context, eventID uuid.UUID, file io.Reader, filename, contentType string) (string, error) {
	if eventID == uuid.Nil {
		return "", fmt.Errorf("%w: invalid event ID", models.ErrInvalidInput)
	}
	if file == nil || strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%w: a file is required", models.ErrInvalidInput)
	}
	if es.images == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}

	key := uploader.EventImageKey(eventID, filename, es.now())
	url, err := es.images.Upload(ctx, key, file, filename, contentType)
	if err != nil {
		return "", handleMutation(ctx, es.logger, es.policy, "upload_event_image", fmt.Errorf("failed to upload event image: %w", err))
	}
	es.logger.InfoContext(ctx, "event image uploaded", "event_id", eventID, "key", key)
	return url, nil
}

// UpdateEventImage sets image_url, or thumbnail_url when isThumbnail is true.
func (es *EventService) UpdateEventImage(ctx context.Context, eventID, ownerID uuid.UUID, url string, isThumbnail bool) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: image url is required", models.ErrInvalidInput)
	}
	column := "image_url"
	if isThumbnail {
		column = "thumbnail_url"
	}
	return es.mutate(ctx, "update_event_image", eventID, ownerID, map[string]interface{}{
		column:       url,
		"updated_at": es.now(),
	})
}

// mutate runs an owner-scoped update. A call that matches no row, because the
// event does not exist or belongs to someone else, still succeeds.
func (es *EventService) mutate(ctx context.Context, op string, eventID, ownerID uuid.UUID, values map[string]interface{}) error {
	n, err := es.eventsRepo.UpdateEvent(ctx, eventID, ownerID, values)
	if err != nil {
		return handleMutation(ctx, es.logger, es.policy, op, err)
	}
	if n == 0 {
		es.logger.DebugContext(ctx, "update matched no rows", "op", op, "event_id", eventID, "owner_id", ownerID)
	}
	return nil
}

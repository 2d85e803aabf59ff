package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/store"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error)
	GetPublishedEvents(ctx context.Context) ([]Event, error)
	// UpdateEvent applies values to the event only when it belongs to
	// organizerID and returns the number of rows changed.
	UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, values map[string]interface{}) (int, error)
}

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is nil", ErrInvalidInput)
	}

	raw, err := su.db.Insert(ctx, EventsTable, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	var created []Event
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created event: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no event data returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) GetEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	if organizerID == uuid.Nil {
		return nil, fmt.Errorf("%w: organizer id is required", ErrInvalidInput)
	}

	return su.listEvents(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("organizer_id", organizerID.String()),
			store.Eq("is_visible_in_my_events", "true"),
		},
		Order: &store.Order{Column: "created_at", Ascending: false},
	})
}

func (su *SupabaseRepo) GetPublishedEvents(ctx context.Context) ([]Event, error) {
	return su.listEvents(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("is_visible_in_join_tab", "true"),
			store.Eq("is_published", "true"),
		},
		Order: &store.Order{Column: "event_date", Ascending: true},
	})
}

func (su *SupabaseRepo) listEvents(ctx context.Context, q store.Query) ([]Event, error) {
	raw, err := su.db.Select(ctx, EventsTable, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

func (su *SupabaseRepo) UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, values map[string]interface{}) (int, error) {
	if eventID == uuid.Nil || organizerID == uuid.Nil {
		return 0, fmt.Errorf("%w: event id and organizer id are required", ErrInvalidInput)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	raw, err := su.db.Update(ctx, EventsTable, values, []store.Filter{
		store.Eq("id", eventID.String()),
		store.Eq("organizer_id", organizerID.String()),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update event: %w", err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal updated event: %w", err)
	}
	return len(rows), nil
}

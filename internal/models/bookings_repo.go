package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/store"
)

type BookingsRepo interface {
	CreateBookings(ctx context.Context, bookings []EventServiceBooking) ([]EventServiceBooking, error)
	GetPendingBookings(ctx context.Context, eventID uuid.UUID) ([]EventServiceBooking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, userID uuid.UUID, status BookingStatus) (int, error)
	GetEventBookingTotal(ctx context.Context, eventID uuid.UUID) (float64, error)
}

func (su *SupabaseRepo) CreateBookings(ctx context.Context, bookings []EventServiceBooking) ([]EventServiceBooking, error) {
	if len(bookings) == 0 {
		return nil, ErrNoBookings
	}

	raw, err := su.db.Insert(ctx, BookingsTable, bookings)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings: %w", err)
	}

	var created []EventServiceBooking
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created bookings: %w", err)
	}
	return created, nil
}

func (su *SupabaseRepo) GetPendingBookings(ctx context.Context, eventID uuid.UUID) ([]EventServiceBooking, error) {
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	raw, err := su.db.Select(ctx, BookingsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("event_id", eventID.String()),
			store.Eq("status", string(BookingPending)),
		},
		Order: &store.Order{Column: "created_at", Ascending: false},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	var bookings []EventServiceBooking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookings: %w", err)
	}
	if bookings == nil {
		bookings = []EventServiceBooking{}
	}
	return bookings, nil
}

func (su *SupabaseRepo) UpdateBookingStatus(ctx context.Context, bookingID, userID uuid.UUID, status BookingStatus) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	raw, err := su.db.Update(ctx, BookingsTable,
		map[string]interface{}{"status": status},
		[]store.Filter{
			store.Eq("id", bookingID.String()),
			store.Eq("user_id", userID.String()),
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking: %w", err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal updated booking: %w", err)
	}
	return len(rows), nil
}

// GetEventBookingTotal asks the database to aggregate the booking cost.
func (su *SupabaseRepo) GetEventBookingTotal(ctx context.Context, eventID uuid.UUID) (float64, error) {
	body, err := su.db.Rpc(ctx, BookingTotalProc, map[string]string{
		"p_event_id": eventID.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to calculate booking total: %w", err)
	}

	body = strings.TrimSpace(body)
	if body == "" || body == "null" {
		return 0, fmt.Errorf("empty booking total response")
	}
	total, err := strconv.ParseFloat(strings.Trim(body, `"`), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected booking total response %q: %w", body, err)
	}
	return total, nil
}

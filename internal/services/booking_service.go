package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
)

type BookingService struct {
	base
	bookingsRepo models.BookingsRepo
}

func NewBookingService(bookingsRepo models.BookingsRepo, opts ...Option) *BookingService {
	return &BookingService{
		base:         newBase(opts),
		bookingsRepo: bookingsRepo,
	}
}

// BookEventServices creates one pending booking per request. Prices are
// computed here and stored; they are never recomputed on read.
func (bs *BookingService) BookEventServices(ctx context.Context, eventID, userID uuid.UUID, reqs []models.BookingRequest) ([]models.EventServiceBooking, error) {
	if eventID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid event ID or user ID", models.ErrInvalidInput)
	}
	if len(reqs) == 0 {
		return nil, models.ErrNoBookings
	}

	now := bs.now()
	bookings := make([]models.EventServiceBooking, 0, len(reqs))
	for i, req := range reqs {
		if err := models.Validate.Struct(req); err != nil {
			return nil, fmt.Errorf("%w: booking %d: %v", models.ErrInvalidInput, i, err)
		}
		bookings = append(bookings, models.NewBooking(eventID, userID, req, now))
	}

	created, err := bs.bookingsRepo.CreateBookings(ctx, bookings)
	if err != nil {
		return nil, handleMutation(ctx, bs.logger, bs.policy, "book_event_services", err)
	}
	return created, nil
}

// GetEventServiceBookings lists the event's pending bookings, newest first.
func (bs *BookingService) GetEventServiceBookings(ctx context.Context, eventID uuid.UUID) ([]models.EventServiceBooking, error) {
	bookings, err := bs.bookingsRepo.GetPendingBookings(ctx, eventID)
	return handleList(ctx, bs.logger, bs.policy, "get_event_service_bookings", bookings, err)
}

// UpdateServiceBooking changes the status of a booking the requester made.
// A booking owned by someone else is left alone without an error.
func (bs *BookingService) UpdateServiceBooking(ctx context.Context, bookingID, userID uuid.UUID, status models.BookingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	n, err := bs.bookingsRepo.UpdateBookingStatus(ctx, bookingID, userID, status)
	if err != nil {
		return handleMutation(ctx, bs.logger, bs.policy, "update_service_booking", err)
	}
	if n == 0 {
		bs.logger.DebugContext(ctx, "booking update matched no rows", "booking_id", bookingID, "user_id", userID)
	}
	return nil
}

func (bs *BookingService) CancelServiceBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	return bs.UpdateServiceBooking(ctx, bookingID, userID, models.BookingCancelled)
}

// GetEventBookingTotal returns the aggregated booking cost computed by the
// database. Under the default policy any failure yields 0.
func (bs *BookingService) GetEventBookingTotal(ctx context.Context, eventID uuid.UUID) (float64, error) {
	total, err := bs.bookingsRepo.GetEventBookingTotal(ctx, eventID)
	return handleValue(ctx, bs.logger, bs.policy, "get_event_booking_total", total, err)
}

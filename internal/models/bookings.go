package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// EventServiceBooking is one provider booked against an event. TotalPrice is
// fixed when the booking is made and never recomputed.
type EventServiceBooking struct {
	ID               uuid.UUID     `json:"id"`
	EventID          uuid.UUID     `json:"event_id"`
	UserID           uuid.UUID     `json:"user_id"`
	ProviderID       string        `json:"provider_id"`
	ProviderName     string        `json:"provider_name"`
	ProviderCategory string        `json:"provider_category"`
	Quantity         int           `json:"quantity"`
	BasePrice        float64       `json:"base_price"`
	TotalPrice       float64       `json:"total_price"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
}

type BookingRequest struct {
	ProviderID       string  `json:"providerId" validate:"required"`
	ProviderName     string  `json:"providerName" validate:"required"`
	ProviderCategory string  `json:"providerCategory"`
	Quantity         int     `json:"quantity" validate:"gte=1"`
	BasePrice        float64 `json:"basePrice" validate:"gte=0"`
}

// NewBooking builds a pending booking row with the total priced now.
func NewBooking(eventID, userID uuid.UUID, req BookingRequest, now time.Time) EventServiceBooking {
	return EventServiceBooking{
		ID:               uuid.New(),
		EventID:          eventID,
		UserID:           userID,
		ProviderID:       req.ProviderID,
		ProviderName:     req.ProviderName,
		ProviderCategory: req.ProviderCategory,
		Quantity:         req.Quantity,
		BasePrice:        req.BasePrice,
		TotalPrice:       req.BasePrice * float64(req.Quantity),
		Status:           BookingPending,
		CreatedAt:        now,
	}
}

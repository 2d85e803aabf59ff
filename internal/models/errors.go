package models

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrNoBookings      = errors.New("no bookings provided")
)

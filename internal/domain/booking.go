package domain

import (
	"context"
	"time"
)

// Booking-related domain errors.
var (
	ErrBookingNotFound = &Error{Code: ENOTFOUND, Message: "Booking not found"}
	ErrPetNotFound     = &Error{Code: ENOTFOUND, Message: "Pet not found"}
	ErrServiceNotFound = &Error{Code: ENOTFOUND, Message: "Service not found"}
)

// BookingStatus is the lifecycle state of a pet-service booking.
type BookingStatus string

const (
	BookingStatusAwaitingConfirmation BookingStatus = "awaiting_confirmation"
	BookingStatusConfirmed            BookingStatus = "confirmed"
	BookingStatusInProgress           BookingStatus = "in_progress"
	BookingStatusCompleted            BookingStatus = "completed"
	BookingStatusCancelled            BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusAwaitingConfirmation, BookingStatusConfirmed,
		BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether a customer may cancel a booking in this state.
// Only the two pre-service states allow it.
func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusAwaitingConfirmation || s == BookingStatusConfirmed
}

// Booking is an appointment for a pet service. Price is a snapshot of the
// service price at booking time; later price edits do not affect it.
type Booking struct {
	ID            int64
	PetID         int64
	ServiceID     int64
	UserID        string
	ContactEmail  string
	AppointmentAt time.Time
	Address       string
	Note          string
	BookingDate   time.Time
	Status        BookingStatus
	Price         int64

	// Denormalized display fields, populated on reads.
	PetName     string
	ServiceName string
}

// BookingStore persists pet-service bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)

	// SetBookingStatus overwrites the status unconditionally (staff use).
	SetBookingStatus(ctx context.Context, id int64, status BookingStatus) (*Booking, error)

	// TransitionBooking moves the booking to `to` only if its current status
	// is one of `from`. Returns ErrIllegalTransition when no row matches.
	TransitionBooking(ctx context.Context, id int64, from []BookingStatus, to BookingStatus) (*Booking, error)
}

package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/email"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

// BookingService runs the pet-service booking lifecycle.
type BookingService interface {
	// CreateBooking books a service for one of the caller's pets. The
	// service price is snapshotted onto the booking.
	CreateBooking(ctx context.Context, params CreateBookingParams) (*domain.Booking, error)

	// GetBooking returns a booking. A booking owned by someone else
	// surfaces as not-found.
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)

	// ListMyBookings returns the caller's bookings, newest first.
	ListMyBookings(ctx context.Context) ([]domain.Booking, error)

	// ListBookings returns every booking (staff only).
	ListBookings(ctx context.Context) ([]domain.Booking, error)

	// CancelBooking cancels the caller's own booking. Legal only before
	// the service starts.
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, error)

	// UpdateBookingStatus is the staff overwrite; any status can be set
	// from any status. The notification email is best-effort.
	UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)

	// ListServices lists the bookable services.
	ListServices(ctx context.Context) ([]domain.Service, error)

	// ListMyPets lists the caller's pets for the booking form.
	ListMyPets(ctx context.Context) ([]domain.Pet, error)
}

// CreateBookingParams describes a new appointment.
type CreateBookingParams struct {
	PetID         int64
	ServiceID     int64
	AppointmentAt time.Time
	Address       string
	Note          string
}

// bookingService implements BookingService.
type bookingService struct {
	bookings domain.BookingStore
	catalog  domain.CatalogStore
	emails   *email.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewBookingService creates a booking service.
func NewBookingService(bookings domain.BookingStore, catalog domain.CatalogStore, emails *email.Service, logger *slog.Logger) BookingService {
	return &bookingService{
		bookings: bookings,
		catalog:  catalog,
		emails:   emails,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (*domain.Booking, error) {
	const op = "booking.create"

	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil, domain.Unauthorized(op, "Authentication required")
	}

	if params.Address == "" {
		return nil, domain.NewValidationError(op, "address", "address is required")
	}
	if params.AppointmentAt.Before(s.now()) {
		return nil, domain.NewValidationError(op, "appointmentAt", "appointment must be in the future")
	}

	pet, err := s.catalog.GetPet(ctx, params.PetID)
	if err != nil {
		return nil, err
	}
	// A pet belonging to someone else is indistinguishable from a missing
	// one.
	if pet.UserID != user.ID {
		return nil, domain.ErrPetNotFound
	}

	svc, err := s.catalog.GetService(ctx, params.ServiceID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		PetID:         pet.ID,
		ServiceID:     svc.ID,
		UserID:        user.ID,
		ContactEmail:  user.Email,
		AppointmentAt: params.AppointmentAt,
		Address:       params.Address,
		Note:          params.Note,
		Status:        domain.BookingStatusAwaitingConfirmation,
		Price:         svc.Price, // snapshot; later price edits don't apply
		PetName:       pet.Name,
		ServiceName:   svc.Name,
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.BookingsCreated.WithLabelValues().Inc()
	}

	s.sendBookingReceived(ctx, booking)

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "booking.get"

	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.IsStaff(ctx) {
		return booking, nil
	}

	if booking.UserID != domain.UserIDFromContext(ctx) {
		return nil, domain.NotFound(op, "booking", strconv.FormatInt(id, 10))
	}

	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context) ([]domain.Booking, error) {
	const op = "booking.list_mine"

	userID := domain.UserIDFromContext(ctx)
	if userID == "" {
		return nil, domain.Unauthorized(op, "Authentication required")
	}

	return s.bookings.ListBookingsByUser(ctx, userID)
}

func (s *bookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	if err := requireStaff(ctx, "booking.list"); err != nil {
		return nil, err
	}
	return s.bookings.ListBookings(ctx)
}

func (s *bookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	// Ownership first (masked as not-found), then a conditional transition
	// so a concurrent staff update still wins.
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.Cancellable() {
		return nil, domain.ErrIllegalTransition
	}

	cancelled, err := s.bookings.TransitionBooking(ctx, id,
		[]domain.BookingStatus{domain.BookingStatusAwaitingConfirmation, domain.BookingStatusConfirmed},
		domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.BookingTransitions.WithLabelValues(string(domain.BookingStatusCancelled), "customer").Inc()
	}

	return cancelled, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "booking.update_status"

	if err := requireStaff(ctx, op); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError(op, "status", "unknown booking status")
	}

	booking, err := s.bookings.SetBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.BookingTransitions.WithLabelValues(string(status), "staff").Inc()
	}

	s.sendBookingStatus(ctx, booking)

	return booking, nil
}

func (s *bookingService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *bookingService) ListMyPets(ctx context.Context) ([]domain.Pet, error) {
	const op = "booking.list_pets"

	userID := domain.UserIDFromContext(ctx)
	if userID == "" {
		return nil, domain.Unauthorized(op, "Authentication required")
	}

	return s.catalog.ListPetsByUser(ctx, userID)
}

// sendBookingReceived mails the booking confirmation. Best-effort.
func (s *bookingService) sendBookingReceived(ctx context.Context, booking *domain.Booking) {
	if s.emails == nil || booking.ContactEmail == "" {
		return
	}
	if err := s.emails.SendBookingReceived(ctx, booking.ContactEmail, booking); err != nil {
		s.logger.Warn("booking: received email failed", "booking_id", booking.ID, "error", err)
		if m := telemetry.Business; m != nil {
			m.EmailFailed.WithLabelValues("booking_received").Inc()
		}
		return
	}
	if m := telemetry.Business; m != nil {
		m.EmailSent.WithLabelValues("booking_received").Inc()
	}
}

// sendBookingStatus mails the status change. Best-effort.
func (s *bookingService) sendBookingStatus(ctx context.Context, booking *domain.Booking) {
	if s.emails == nil || booking.ContactEmail == "" {
		return
	}
	if err := s.emails.SendBookingStatusUpdate(ctx, booking.ContactEmail, booking); err != nil {
		s.logger.Warn("booking: status email failed", "booking_id", booking.ID, "error", err)
		if m := telemetry.Business; m != nil {
			m.EmailFailed.WithLabelValues("booking_status").Inc()
		}
		return
	}
	if m := telemetry.Business; m != nil {
		m.EmailSent.WithLabelValues("booking_status").Inc()
	}
}

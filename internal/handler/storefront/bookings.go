package storefront

import (
	"net/http"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// BookingHandler exposes the pet-service booking lifecycle to customers
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type createBookingRequest struct {
	PetID         int64     `json:"pet_id" validate:"required,gt=0"`
	ServiceID     int64     `json:"service_id" validate:"required,gt=0"`
	AppointmentAt time.Time `json:"appointment_at" validate:"required"`
	Address       string    `json:"address" validate:"required,max=500"`
	Note          string    `json:"note" validate:"max=1000"`
}

// Create handles POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("booking.create", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), service.CreateBookingParams{
		PetID:         req.PetID,
		ServiceID:     req.ServiceID,
		AppointmentAt: req.AppointmentAt,
		Address:       req.Address,
		Note:          req.Note,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, booking)
}

// List handles GET /bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListMyBookings(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, struct {
		Bookings []domain.Booking `json:"bookings"`
	}{Bookings: bookings})
}

// Get handles GET /bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, booking)
}

// Cancel handles POST /bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.CancelBooking(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, booking)
}

// Services handles GET /services
func (h *BookingHandler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.bookingService.ListServices(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, struct {
		Services []domain.Service `json:"services"`
	}{Services: services})
}

// Pets handles GET /pets
func (h *BookingHandler) Pets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.bookingService.ListMyPets(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, struct {
		Pets []domain.Pet `json:"pets"`
	}{Pets: pets})
}

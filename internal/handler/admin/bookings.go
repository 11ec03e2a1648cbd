package admin

import (
	"net/http"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// BookingHandler manages pet-service bookings from the back office
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new admin booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// List handles GET /admin/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListBookings(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, struct {
		Bookings []domain.Booking `json:"bookings"`
	}{Bookings: bookings})
}

// Get handles GET /admin/bookings/{id}
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

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=awaiting_confirmation confirmed in_progress completed cancelled"`
}

// UpdateStatus handles PATCH /admin/bookings/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateBookingStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("booking.update_status", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(r.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, booking)
}

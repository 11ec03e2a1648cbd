package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// Service renders the transactional emails. Callers treat every method as
// best-effort: errors are returned for logging but must never fail the
// operation that triggered the email.
type Service struct {
	sender Sender
}

// NewService creates an email service on top of a sender.
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// statusLabels are the customer-facing names of order statuses.
var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPending:   "Pending",
	domain.OrderStatusShipping:  "Shipping",
	domain.OrderStatusDelivered: "Delivered",
	domain.OrderStatusCancelled: "Cancelled",
}

// bookingStatusLabels are the customer-facing names of booking statuses.
var bookingStatusLabels = map[domain.BookingStatus]string{
	domain.BookingStatusAwaitingConfirmation: "Awaiting confirmation",
	domain.BookingStatusConfirmed:            "Confirmed",
	domain.BookingStatusInProgress:           "In progress",
	domain.BookingStatusCompleted:            "Completed",
	domain.BookingStatusCancelled:            "Cancelled",
}

// SendOrderConfirmation mails the order summary after checkout or after a
// verified gateway payment.
func (s *Service) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	var lines strings.Builder
	for _, l := range order.Lines {
		fmt.Fprintf(&lines, "  - %s (%s) x%d — %d VND\n", l.ProductName, l.Size, l.Quantity, l.LineTotal())
	}

	body := fmt.Sprintf(
		"Hi %s %s,\n\n"+
			"Thank you for your order #%d.\n\n"+
			"Items:\n%s\n"+
			"Subtotal:     %d VND\n"+
			"Shipping fee: %d VND\n"+
			"Discount:     -%d VND\n"+
			"Total:        %d VND\n\n"+
			"Payment method: %s\n"+
			"Delivery address: %s\n\n"+
			"We will let you know when your order ships.\n",
		order.FirstName, order.LastName, order.ID, lines.String(),
		order.Subtotal, order.ShippingFee, order.Discount, order.TotalAmount,
		order.PaymentMethod, order.Address,
	)

	_, err := s.sender.Send(ctx, &Email{
		To:       []string{order.Email},
		Subject:  fmt.Sprintf("Order #%d confirmed", order.ID),
		TextBody: body,
	})
	return err
}

// SendOrderStatusUpdate mails the customer when staff move an order.
func (s *Service) SendOrderStatusUpdate(ctx context.Context, order *domain.Order) error {
	label := statusLabels[order.Status]
	if label == "" {
		label = string(order.Status)
	}

	body := fmt.Sprintf(
		"Hi %s %s,\n\n"+
			"Your order #%d is now: %s.\n\n"+
			"Total: %d VND\n",
		order.FirstName, order.LastName, order.ID, label, order.TotalAmount,
	)

	_, err := s.sender.Send(ctx, &Email{
		To:       []string{order.Email},
		Subject:  fmt.Sprintf("Order #%d update: %s", order.ID, label),
		TextBody: body,
	})
	return err
}

// SendBookingReceived confirms that a service booking was registered.
func (s *Service) SendBookingReceived(ctx context.Context, to string, booking *domain.Booking) error {
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"We received your booking #%d for %s (%s).\n"+
			"Appointment: %s\n"+
			"Address: %s\n"+
			"Price: %d VND\n\n"+
			"We will confirm it shortly.\n",
		booking.ID, booking.ServiceName, booking.PetName,
		booking.AppointmentAt.Format("02 Jan 2006 15:04"),
		booking.Address, booking.Price,
	)

	_, err := s.sender.Send(ctx, &Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("Booking #%d received", booking.ID),
		TextBody: body,
	})
	return err
}

// SendBookingStatusUpdate mails the customer when a booking changes state.
func (s *Service) SendBookingStatusUpdate(ctx context.Context, to string, booking *domain.Booking) error {
	label := bookingStatusLabels[booking.Status]
	if label == "" {
		label = string(booking.Status)
	}

	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Your booking #%d for %s is now: %s.\n",
		booking.ID, booking.ServiceName, label,
	)

	_, err := s.sender.Send(ctx, &Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("Booking #%d update: %s", booking.ID, label),
		TextBody: body,
	})
	return err
}

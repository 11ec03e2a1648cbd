package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// BookingStore implements domain.BookingStore on PostgreSQL.
type BookingStore struct {
	pool *pgxpool.Pool
}

var _ domain.BookingStore = (*BookingStore)(nil)

// NewBookingStore creates a new PostgreSQL-backed booking store.
func NewBookingStore(pool *pgxpool.Pool) *BookingStore {
	return &BookingStore{pool: pool}
}

// bookingQuery joins in pet and service names for display. Prices stay on
// the booking row; the join is read-only decoration.
const bookingQuery = `
	SELECT b.id, b.pet_id, b.service_id, b.user_id, b.contact_email, b.appointment_at,
	       b.address, b.note, b.booking_date, b.status, b.price,
	       p.name, s.name
	FROM pet_services b
	JOIN pets p ON p.id = b.pet_id
	JOIN services s ON s.id = b.service_id`

func (s *BookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	const op = "booking.create"

	err := s.pool.QueryRow(ctx, `
		INSERT INTO pet_services (pet_id, service_id, user_id, contact_email, appointment_at, address, note, status, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, booking_date`,
		booking.PetID, booking.ServiceID, booking.UserID, booking.ContactEmail, booking.AppointmentAt,
		booking.Address, booking.Note, booking.Status, booking.Price,
	).Scan(&booking.ID, &booking.BookingDate)
	if err != nil {
		return domain.Internal(err, op, "failed to insert booking")
	}

	return nil
}

func (s *BookingStore) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "booking.get"

	row := s.pool.QueryRow(ctx, bookingQuery+` WHERE b.id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "booking", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to load booking")
	}

	return booking, nil
}

func (s *BookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	const op = "booking.list_by_user"

	rows, err := s.pool.Query(ctx, bookingQuery+` WHERE b.user_id = $1 ORDER BY b.booking_date DESC, b.id DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list bookings")
	}
	defer rows.Close()

	return collectBookings(rows, op)
}

func (s *BookingStore) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	const op = "booking.list"

	rows, err := s.pool.Query(ctx, bookingQuery+` ORDER BY b.booking_date DESC, b.id DESC`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list bookings")
	}
	defer rows.Close()

	return collectBookings(rows, op)
}

// SetBookingStatus overwrites the status unconditionally (staff use).
func (s *BookingStore) SetBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "booking.set_status"

	tag, err := s.pool.Exec(ctx, `UPDATE pet_services SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to update booking status")
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.NotFound(op, "booking", strconv.FormatInt(id, 10))
	}

	return s.GetBooking(ctx, id)
}

// TransitionBooking moves the booking to `to` only when its current status
// is one of `from`. A zero-row update on an existing booking means the
// transition was illegal at commit time.
func (s *BookingStore) TransitionBooking(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	const op = "booking.transition"

	fromStrs := make([]string, len(from))
	for i, st := range from {
		fromStrs[i] = string(st)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE pet_services
		SET status = $2
		WHERE id = $1 AND status = ANY($3)`,
		id, to, fromStrs)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to transition booking")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pet_services WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, domain.Internal(checkErr, op, "failed to check booking")
		}
		if !exists {
			return nil, domain.NotFound(op, "booking", strconv.FormatInt(id, 10))
		}
		return nil, domain.ErrIllegalTransition
	}

	return s.GetBooking(ctx, id)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.PetID, &b.ServiceID, &b.UserID, &b.ContactEmail, &b.AppointmentAt,
		&b.Address, &b.Note, &b.BookingDate, &b.Status, &b.Price,
		&b.PetName, &b.ServiceName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan booking")
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read bookings")
	}
	return bookings, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a booking by id.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListPaged returns one page of bookings matching f, newest first, and the
	// total number of matching bookings.
	ListPaged(ctx context.Context, f domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// ListAll returns every booking matching f, newest first, for export.
	ListAll(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)

	// UpdateStatus sets the status of a booking and returns the updated record.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)

	// Delete removes a booking. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats returns booking counts per status.
	Stats(ctx context.Context) (domain.BookingStats, error)
}

const bookingColumns = `id, customer_name, email, phone, trip_name, travel_date, travelers, message, status, created_at, updated_at`

type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by db.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (customer_name, email, phone, trip_name, travel_date, travelers, message, status)
		VALUES (@customer_name, @email, @phone, @trip_name, @travel_date, @travelers, @message, @status)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"customer_name": b.CustomerName,
		"email":         b.Email,
		"phone":         b.Phone,
		"trip_name":     b.TripName,
		"travel_date":   b.TravelDate, // nil becomes NULL
		"travelers":     b.Travelers,
		"message":       b.Message,
		"status":        string(b.Status),
	}

	result, err := scanBooking(executor(ctx, r.db).QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", mapWriteError(err, nil))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListPaged(ctx context.Context, f domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const filter = ` WHERE (@status::text IS NULL OR status = @status::text)`

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}
	args := pgx.NamedArgs{
		"status": status,
		"limit":  p.Limit,
		"offset": p.Offset(),
	}

	q := executor(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+filter, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: count: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings`+filter+`
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: rows: %w", err)
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) ListAll(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (@status::text IS NULL OR status = @status::text)
		ORDER BY created_at DESC`

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := executor(ctx, r.db).Query(ctx, q, pgx.NamedArgs{"status": status})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListAll: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListAll: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListAll: rows: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	result, err := scanBooking(executor(ctx, r.db).QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := executor(ctx, r.db).Exec(ctx, `DELETE FROM bookings WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgBookingRepo) Stats(ctx context.Context) (domain.BookingStats, error) {
	const q = `SELECT status, COUNT(*)::int FROM bookings GROUP BY status`

	rows, err := executor(ctx, r.db).Query(ctx, q)
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("repo.BookingRepo.Stats: %w", err)
	}
	defer rows.Close()

	stats := domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int, len(domain.BookingStatuses))}
	for _, s := range domain.BookingStatuses {
		stats.ByStatus[s] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return domain.BookingStats{}, fmt.Errorf("repo.BookingRepo.Stats: scan: %w", err)
		}
		stats.ByStatus[domain.BookingStatus(status)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return domain.BookingStats{}, fmt.Errorf("repo.BookingRepo.Stats: rows: %w", err)
	}
	return stats, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the UUID and nullable travel_date conversions.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		id         pgtype.UUID
		travelDate pgtype.Date
		status     string
	)
	err := s.Scan(&id, &b.CustomerName, &b.Email, &b.Phone, &b.TripName, &travelDate,
		&b.Travelers, &b.Message, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	b.ID = uuid.UUID(id.Bytes)
	b.Status = domain.BookingStatus(status)
	if travelDate.Valid {
		td := travelDate.Time
		b.TravelDate = &td
	}
	return b, nil
}

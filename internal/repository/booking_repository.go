package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, user_id, company_name, email, service, contact_number,
	alternative_contact_number, state, city, address, pincode, status, created_at, updated_at`

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b       model.Booking
		alt     sql.NullString
		service string
		status  string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.CompanyName, &b.Email, &service, &b.ContactNumber,
		&alt, &b.State, &b.City, &b.Address, &b.Pincode, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.AlternativeContactNumber = alt.String
	b.Service = model.Service(service)
	b.Status = model.BookingStatus(status)
	return &b, nil
}

func (r *BookingRepo) scanAll(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Create inserts a booking and populates ID, status and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	const q = `INSERT INTO bookings (user_id, company_name, email, service, contact_number,
		alternative_contact_number, state, city, address, pincode, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.CompanyName, b.Email, string(b.Service),
		b.ContactNumber, nullable(b.AlternativeContactNumber), b.State, b.City, b.Address,
		b.Pincode, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, model.BookingID(id))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID fetches a booking by its ID regardless of owner.
func (r *BookingRepo) GetByID(ctx context.Context, id model.BookingID) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
}

// ListByUser returns the bookings owned by userID ordered by id.
func (r *BookingRepo) ListByUser(ctx context.Context, userID model.UserID) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// List returns all bookings, optionally restricted to one status.
func (r *BookingRepo) List(ctx context.Context, status *model.BookingStatus) ([]model.Booking, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.QueryContext(ctx,
			"SELECT "+bookingColumns+" FROM bookings WHERE status = ? ORDER BY id", string(*status))
	} else {
		rows, err = r.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
	}
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// UpdateStatus patches the status column.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id model.BookingID, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

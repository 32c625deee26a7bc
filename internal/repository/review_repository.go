package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// ReviewRepo stores reviews.  The reviews table carries a unique key on
// (user_id, booking_id), which is what makes duplicate reviews impossible
// even when two requests race past the service-level check.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = "id, user_id, booking_id, rating, feedback, approved, created_at"

func scanReview(row rowScanner) (*model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.BookingID, &rv.Rating, &rv.Feedback, &rv.Approved, &rv.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func scanReviews(rows *sql.Rows) ([]model.Review, error) {
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

// Create inserts a review.  A second review for the same user and booking
// yields ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, booking_id, rating, feedback, approved) VALUES (?,?,?,?,?)",
		rv.UserID, rv.BookingID, rv.Rating, rv.Feedback, rv.Approved)
	if err != nil {
		if _, dup := duplicateKey(err); dup {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	if err != nil {
		return err
	}
	*rv = *created
	return nil
}

// ListByUser returns reviews written by userID.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// List returns all reviews, optionally filtered by approval.
func (r *ReviewRepo) List(ctx context.Context, approved *bool) ([]model.Review, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if approved != nil {
		rows, err = r.db.QueryContext(ctx,
			"SELECT "+reviewColumns+" FROM reviews WHERE approved = ? ORDER BY id", *approved)
	} else {
		rows, err = r.db.QueryContext(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY id")
	}
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// SetApproved patches the approved flag.
func (r *ReviewRepo) SetApproved(ctx context.Context, id model.ReviewID, approved bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE reviews SET approved = ? WHERE id = ?", approved, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

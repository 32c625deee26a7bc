package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// QueryRepo stores contact messages.
type QueryRepo struct {
	db *sql.DB
}

func NewQueryRepo(db *sql.DB) *QueryRepo { return &QueryRepo{db: db} }

const queryColumns = "id, user_id, name, email, message, status, created_at, updated_at"

func scanQuery(row rowScanner) (*model.Query, error) {
	var (
		q      model.Query
		userID sql.NullInt64
		status string
	)
	if err := row.Scan(&q.ID, &userID, &q.Name, &q.Email, &q.Message, &status, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID.Valid {
		q.UserID = model.UserID(userID.Int64)
	}
	q.Status = model.QueryStatus(status)
	return &q, nil
}

// Create inserts the message.  A zero UserID is stored as NULL.
func (r *QueryRepo) Create(ctx context.Context, q *model.Query) error {
	if q.Status == "" {
		q.Status = model.QueryPending
	}
	owner := sql.NullInt64{Int64: int64(q.UserID), Valid: q.UserID != 0}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO queries (user_id, name, email, message, status) VALUES (?,?,?,?,?)",
		owner, q.Name, q.Email, q.Message, string(q.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := scanQuery(r.db.QueryRowContext(ctx,
		"SELECT "+queryColumns+" FROM queries WHERE id = ?", id))
	if err != nil {
		return err
	}
	*q = *created
	return nil
}

// List returns all queries, optionally restricted to one status.
func (r *QueryRepo) List(ctx context.Context, status *model.QueryStatus) ([]model.Query, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.QueryContext(ctx,
			"SELECT "+queryColumns+" FROM queries WHERE status = ? ORDER BY id", string(*status))
	} else {
		rows, err = r.db.QueryContext(ctx, "SELECT "+queryColumns+" FROM queries ORDER BY id")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// UpdateStatus patches the status column.
func (r *QueryRepo) UpdateStatus(ctx context.Context, id model.QueryID, status model.QueryStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE queries SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// UserRepo is the MySQL-backed user directory.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, name, email, username, phone, image, password_hash, password_hint,
	role, reset_token_hash, reset_token_expiry, created_at, updated_at`

// nullable stores empty optional strings as NULL so that the unique
// indexes on email and username only apply to present values.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                                         model.User
		name, email, username, phone, image, hint sql.NullString
		resetHash                                 sql.NullString
		role                                      string
	)
	err := row.Scan(&u.ID, &name, &email, &username, &phone, &image, &u.PasswordHash, &hint,
		&role, &resetHash, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Name, u.Email, u.Username = name.String, email.String, username.String
	u.Phone, u.Image, u.PasswordHint = phone.String, image.String, hint.String
	u.ResetTokenHash = resetHash.String
	u.Role = model.Role(role)
	return &u, nil
}

// Create inserts the user and fills in its ID and timestamps.  Duplicate
// email or username yields ErrEmailExists / ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = model.DefaultRole
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, username, phone, image, password_hash, password_hint, role)
		 VALUES (?,?,?,?,?,?,?,?)`,
		nullable(u.Name), nullable(u.Email), nullable(u.Username), nullable(u.Phone),
		nullable(u.Image), u.PasswordHash, nullable(u.PasswordHint), string(u.Role))
	if err != nil {
		return translateUserDup(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, model.UserID(id))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByResetTokenHash fetches the user currently holding the reset token.
func (r *UserRepo) GetByResetTokenHash(ctx context.Context, hash string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? LIMIT 1", hash))
}

// GetMany loads the users with the given ids.  Missing ids are simply
// absent from the result.
func (r *UserRepo) GetMany(ctx context.Context, ids []model.UserID) (map[model.UserID]*model.User, error) {
	out := make(map[model.UserID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// List returns every user ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateProfile overwrites the profile-completion fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id model.UserID, name, username, phone, hint string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET name=?, username=?, phone=?, password_hint=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		nullable(name), nullable(username), nullable(phone), nullable(hint), id)
	if err != nil {
		return translateUserDup(err)
	}
	return expectRow(res)
}

// SetRole changes the user's role.
func (r *UserRepo) SetRole(ctx context.Context, id model.UserID, role model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", string(role), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// SetResetToken stores a reset token hash and its expiry, replacing any
// previous token.
func (r *UserRepo) SetResetToken(ctx context.Context, id model.UserID, hash string, expiryMillis int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_token_expiry=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, expiryMillis, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ResetPassword replaces the password hash and clears the reset token in
// one statement, so a token can only be redeemed once.
func (r *UserRepo) ResetPassword(ctx context.Context, id model.UserID, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_token_expiry=0,
		 updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		passwordHash, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete removes the user together with their refresh tokens.
func (r *UserRepo) Delete(ctx context.Context, id model.UserID) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id); err != nil {
		return err
	}
	err = expectRow(res)
	return err
}

// expectRow turns "no rows affected" into ErrNotFound.  The DSN sets
// clientFoundRows, so an UPDATE that matches a row but writes identical
// values still counts as one.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package memstore

import (
	"context"
	"time"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
)

// UserStore is the in-memory user directory.
type UserStore struct{ s *Store }

// conflictLocked checks email and username uniqueness against every user
// except self.  Callers hold s.mu.
func (u *UserStore) conflictLocked(self model.UserID, email, username string) error {
	for id, other := range u.s.users {
		if id == self {
			continue
		}
		if email != "" && other.Email == email {
			return repository.ErrEmailExists
		}
		if username != "" && other.Username == username {
			return repository.ErrUsernameExists
		}
	}
	return nil
}

func (u *UserStore) Create(_ context.Context, usr *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr.Email = normEmail(usr.Email)
	if err := u.conflictLocked(0, usr.Email, usr.Username); err != nil {
		return err
	}
	if usr.Role == "" {
		usr.Role = model.DefaultRole
	}
	u.s.nextUser++
	usr.ID = model.UserID(u.s.nextUser)
	usr.CreatedAt, usr.UpdatedAt = now(), now()
	u.s.users[usr.ID] = *usr
	return nil
}

func (u *UserStore) GetByID(_ context.Context, id model.UserID) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &usr, nil
}

func (u *UserStore) find(match func(model.User) bool) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, id := range sortedKeys(u.s.users) {
		if usr := u.s.users[id]; match(usr) {
			return &usr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = normEmail(email)
	if email == "" {
		return nil, repository.ErrNotFound
	}
	return u.find(func(usr model.User) bool { return usr.Email == email })
}

func (u *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, repository.ErrNotFound
	}
	return u.find(func(usr model.User) bool { return usr.Username == username })
}

func (u *UserStore) GetByResetTokenHash(_ context.Context, hash string) (*model.User, error) {
	if hash == "" {
		return nil, repository.ErrNotFound
	}
	return u.find(func(usr model.User) bool { return usr.ResetTokenHash == hash })
}

func (u *UserStore) GetMany(_ context.Context, ids []model.UserID) (map[model.UserID]*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := make(map[model.UserID]*model.User, len(ids))
	for _, id := range ids {
		if usr, ok := u.s.users[id]; ok {
			out[id] = &usr
		}
	}
	return out, nil
}

func (u *UserStore) List(_ context.Context) ([]model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := make([]model.User, 0, len(u.s.users))
	for _, id := range sortedKeys(u.s.users) {
		out = append(out, u.s.users[id])
	}
	return out, nil
}

// update applies fn to the stored user under the lock.
func (u *UserStore) update(id model.UserID, fn func(*model.User) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := fn(&usr); err != nil {
		return err
	}
	usr.UpdatedAt = now()
	u.s.users[id] = usr
	return nil
}

func (u *UserStore) UpdateProfile(_ context.Context, id model.UserID, name, username, phone, hint string) error {
	return u.update(id, func(usr *model.User) error {
		if err := u.conflictLocked(id, "", username); err != nil {
			return err
		}
		usr.Name, usr.Username, usr.Phone, usr.PasswordHint = name, username, phone, hint
		return nil
	})
}

func (u *UserStore) SetRole(_ context.Context, id model.UserID, role model.Role) error {
	return u.update(id, func(usr *model.User) error {
		usr.Role = role
		return nil
	})
}

func (u *UserStore) SetResetToken(_ context.Context, id model.UserID, hash string, expiryMillis int64) error {
	return u.update(id, func(usr *model.User) error {
		usr.ResetTokenHash, usr.ResetTokenExpiry = hash, expiryMillis
		return nil
	})
}

func (u *UserStore) ResetPassword(_ context.Context, id model.UserID, passwordHash string) error {
	return u.update(id, func(usr *model.User) error {
		usr.PasswordHash = passwordHash
		usr.ResetTokenHash, usr.ResetTokenExpiry = "", 0
		return nil
	})
}

// Delete removes the user and cascades like the SQL foreign keys:
// tokens, bookings and reviews go, queries lose their owner.
func (u *UserStore) Delete(_ context.Context, id model.UserID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(u.s.users, id)
	for h, t := range u.s.tokens {
		if t.userID == id {
			delete(u.s.tokens, h)
		}
	}
	for bid, b := range u.s.bookings {
		if b.UserID == id {
			delete(u.s.bookings, bid)
		}
	}
	for rid, r := range u.s.reviews {
		if r.UserID == id || !u.bookingExistsLocked(r.BookingID) {
			delete(u.s.reviews, rid)
		}
	}
	for qid, q := range u.s.queries {
		if q.UserID == id {
			q.UserID = 0
			u.s.queries[qid] = q
		}
	}
	return nil
}

func (u *UserStore) bookingExistsLocked(id model.BookingID) bool {
	_, ok := u.s.bookings[id]
	return ok
}

// TokenStore holds refresh tokens keyed by hash.
type TokenStore struct{ s *Store }

func (t *TokenStore) StoreRefresh(_ context.Context, userID model.UserID, tokenHash string, exp time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.tokens[tokenHash] = tokenRow{userID: userID, expiresAt: exp}
	return nil
}

func (t *TokenStore) ValidateRefresh(_ context.Context, tokenHash string, at time.Time) (model.UserID, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.tokens[tokenHash]
	if !ok || row.revoked || at.UTC().After(row.expiresAt) {
		return 0, repository.ErrNotFound
	}
	return row.userID, nil
}

func (t *TokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if row, ok := t.s.tokens[tokenHash]; ok {
		row.revoked = true
		t.s.tokens[tokenHash] = row
	}
	return nil
}

func (t *TokenStore) RevokeAllForUser(_ context.Context, userID model.UserID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for h, row := range t.s.tokens {
		if row.userID == userID {
			row.revoked = true
			t.s.tokens[h] = row
		}
	}
	return nil
}

func (t *TokenStore) PurgeStale(_ context.Context, at time.Time) (int64, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var n int64
	for h, row := range t.s.tokens {
		if row.revoked || row.expiresAt.Before(at.UTC()) {
			delete(t.s.tokens, h)
			n++
		}
	}
	return n, nil
}

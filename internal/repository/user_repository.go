package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/online-storefront/internal/model"
	"github.com/iliyamo/online-storefront/internal/utils"
)

// UserRepo provides CRUD access to the `users` table.  Timestamps are stored
// as Unix seconds so the queries stay portable between MySQL and the sqlite
// database used in tests.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email,password_hash,is_admin,created_at,updated_at"

// Create hashes the password and inserts a new user, returning its ID.
// Email uniqueness is enforced with a pre-check so the caller receives
// ErrEmailExists instead of a driver specific duplicate-key error.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, isAdmin bool, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := r.GetByEmail(ctx, email); err == nil {
		return 0, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC().Unix()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name,email,password_hash,is_admin,created_at,updated_at) VALUES (?,?,?,?,?,?)",
		name, email, hash, isAdmin, now, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns every user, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC, id DESC")
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
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile applies a partial update.  A field is replaced only when the
// incoming value is non-zero: empty name/email are skipped and isAdmin is
// only ever raised, never lowered, through this path.  There is no way to
// clear a field through this update.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email string, isAdmin bool) (model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != u.Email {
			if _, err := r.GetByEmail(ctx, email); err == nil {
				return model.User{}, ErrEmailExists
			} else if !errors.Is(err, ErrNotFound) {
				return model.User{}, err
			}
			u.Email = email
		}
	}
	if isAdmin {
		u.IsAdmin = true
	}
	u.UpdatedAt = time.Now().UTC()

	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, is_admin=?, updated_at=? WHERE id=?",
		u.Name, u.Email, u.IsAdmin, u.UpdatedAt.Unix(), u.ID)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete removes a user permanently.  There is no tombstone.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *UserRepo) scanOne(row rowScanner) (model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	var created, updated int64
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &created, &updated)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(updated, 0).UTC()
	return u, nil
}

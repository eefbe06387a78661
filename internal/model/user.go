package model

import "time"

// User represents an account record as stored in the `users` table.  The
// password is kept only as a bcrypt hash; the plaintext never touches the
// database.  Timestamps are persisted as Unix seconds so the same queries run
// against MySQL in production and sqlite in tests.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name shown in the storefront.
//	Email        – unique email address, stored lowercased.
//	PasswordHash – bcrypt hashed password.
//	IsAdmin      – whether the account carries the administrator flag.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

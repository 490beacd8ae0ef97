package user

import (
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the verified caller fact the purchase engine and the
// authorization middleware consume. It carries no credentials.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}
